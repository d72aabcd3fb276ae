package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := Conn{User: "console", Pass: "pw", Host: "db", Port: "3306", Name: "console"}.DSN()
	assert.Contains(t, dsn, "console:pw@tcp(db:3306)/console?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDSNWithoutPassword(t *testing.T) {
	dsn := Conn{User: "console", Host: "db", Port: "3306", Name: "console"}.DSN()
	assert.Contains(t, dsn, "console@tcp(db:3306)/console?")
}
