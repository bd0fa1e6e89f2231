// Package testutil 测试公用：内存 SQLite 与基础数据
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"hotel-booking-api/internal/core/database"
	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/pkg/utils"
)

// NewStore 每个测试一个独立内存库；单连接，事务内外不会并发写
func NewStore(t testing.TB) *repo.Store {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", utils.NewID()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo.NewStore(db)
}

// CreateUser 密码固定为 Password
func CreateUser(t testing.TB, st *repo.Store, role domain.Role) *domain.User {
	t.Helper()
	id := utils.NewID()
	u := &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		FirstName:    "Test",
		LastName:     string(role),
		PasswordHash: passwordHash(t),
		Role:         role,
	}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return u
}

const Password = "secret123"

var (
	hashMu     sync.Mutex
	cachedHash string
)

func passwordHash(t testing.TB) string {
	hashMu.Lock()
	defer hashMu.Unlock()
	if cachedHash == "" {
		h, err := utils.HashPassword(Password)
		require.NoError(t, err)
		cachedHash = h
	}
	return cachedHash
}

// CreateHotel managerID 为空表示未指派
func CreateHotel(t testing.TB, st *repo.Store, rooms int, managerID string) *domain.Hotel {
	t.Helper()
	h := &domain.Hotel{
		ID:         utils.NewID(),
		Name:       "Hotel " + utils.NewID()[:8],
		Location:   "Berlin",
		RoomsCount: rooms,
	}
	if managerID != "" {
		h.ManagerID = &managerID
	}
	require.NoError(t, st.Hotels().Create(context.Background(), h))
	return h
}
