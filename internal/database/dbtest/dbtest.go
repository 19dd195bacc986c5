// Package dbtest provides an isolated, migrated in-memory database and
// fixture helpers for package tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crmdesk/internal/database"
	"crmdesk/internal/domain"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:crm_%s?mode=memory&cache=shared", name)
	db, err := database.OpenSQLite(dsn, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func Admin(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: strings.Split(email, "@")[0], Email: email, PasswordHash: "x", Role: domain.RoleAdmin}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Employee(t *testing.T, db *gorm.DB, owner *domain.User, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: strings.Split(email, "@")[0], Email: email, PasswordHash: "x", Role: domain.RoleEmployee, OwnerID: &owner.ID}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Lead(t *testing.T, db *gorm.DB, workspaceID int64, name string, status domain.LeadStatus) *domain.Lead {
	t.Helper()
	l := &domain.Lead{WorkspaceID: workspaceID, Name: name, Status: status, ExpectedValue: 1000}
	require.NoError(t, db.Create(l).Error)
	return l
}

func Client(t *testing.T, db *gorm.DB, workspaceID int64, name string) *domain.Client {
	t.Helper()
	c := &domain.Client{WorkspaceID: workspaceID, Name: name, TotalValue: 500}
	require.NoError(t, db.Create(c).Error)
	return c
}

func Project(t *testing.T, db *gorm.DB, workspaceID, clientID int64, name string, total float64) *domain.Project {
	t.Helper()
	p := &domain.Project{WorkspaceID: workspaceID, ClientID: clientID, Name: name, TotalAmount: total, Status: domain.ProjectActive}
	require.NoError(t, db.Create(p).Error)
	return p
}
