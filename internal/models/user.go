package models

// User is a row of the users table. Roles and tags live in join tables.
type User struct {
	UserID         string  `db:"user_id"`
	Username       string  `db:"username"`
	PasswordHash   *string `db:"password_hash"`
	LoginTokenHash *string `db:"login_token_hash"`
	PartnerID      *string `db:"partner_id"`
	AuditFields
	Roles  []string `db:"roles"`
	TagIDs []string `db:"tag_ids"`
}
