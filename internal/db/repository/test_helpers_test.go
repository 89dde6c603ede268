package repository

import "github.com/jackc/pgx/v5/pgtype"

// fixedUUID returns a valid UUID whose last byte is b.
func fixedUUID(b byte) pgtype.UUID {
	var id pgtype.UUID
	id.Bytes[15] = b
	id.Valid = true
	return id
}
