package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/001-ddl-privileges.sql
var InitdbMariaDBPrivileges string
