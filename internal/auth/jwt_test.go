package auth_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	c := qt.New(t)

	hash, err := auth.HashPassword("secret123")
	c.Assert(err, qt.IsNil)
	c.Assert(hash, qt.Not(qt.Equals), "secret123")

	c.Assert(auth.CheckPassword("secret123", hash), qt.IsTrue)
	c.Assert(auth.CheckPassword("wrong", hash), qt.IsFalse)
	c.Assert(auth.CheckPassword("secret123", "not a hash"), qt.IsFalse)
}

func TestTokenRoundTrip(t *testing.T) {
	c := qt.New(t)

	svc := auth.NewJWTService("test-secret", time.Hour)
	companyID := 7
	token, err := svc.GenerateToken(42, "alice", "Alice A", models.RoleAdmin, &companyID)
	c.Assert(err, qt.IsNil)

	claims, err := svc.ValidateToken(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.UserID, qt.Equals, 42)
	c.Assert(claims.Username, qt.Equals, "alice")
	c.Assert(claims.DisplayName, qt.Equals, "Alice A")
	c.Assert(claims.Role, qt.Equals, models.RoleAdmin)
	c.Assert(*claims.CompanyID, qt.Equals, 7)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	c := qt.New(t)

	token, err := auth.NewJWTService("secret-a", time.Hour).GenerateToken(1, "alice", "Alice", models.RoleViewer, nil)
	c.Assert(err, qt.IsNil)

	_, err = auth.NewJWTService("secret-b", time.Hour).ValidateToken(token)
	c.Assert(err, qt.IsNotNil)
}

func TestNonPositiveExpiryFallsBackToDefault(t *testing.T) {
	c := qt.New(t)

	svc := auth.NewJWTService("test-secret", 0)
	token, err := svc.GenerateToken(1, "alice", "Alice", models.RoleViewer, nil)
	c.Assert(err, qt.IsNil)

	claims, err := svc.ValidateToken(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.ExpiresAt.After(time.Now().Add(6*24*time.Hour)), qt.IsTrue)
}

func TestGarbageTokenRejected(t *testing.T) {
	c := qt.New(t)

	svc := auth.NewJWTService("test-secret", time.Hour)
	_, err := svc.ValidateToken("not.a.token")
	c.Assert(err, qt.IsNotNil)
}
