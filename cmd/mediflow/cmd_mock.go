package main

import (
	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/mockBackend"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mockServerCmd 本地模拟后端,不需要登录
func (a *app) mockServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mock-server",
		Short: "启动本地模拟后端",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			return a.cfg.ValidateMock()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.mockStore()
			if err != nil {
				return err
			}
			users, err := store.Users.Find(func(*mockBackend.User) bool { return true })
			if err != nil {
				return err
			}
			s, err := mockBackend.New(store, mockBackend.Config{
				JWTSecret:      a.cfg.MockJWTSecret,
				TokenTTL:       a.cfg.MockTokenTTL,
				RateLimitRPS:   a.cfg.MockRateLimitRPS,
				RateLimitBurst: a.cfg.MockRateLimitBurst,
				Seed:           len(users) == 0,
			}, a.logger)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				a.logger.Info("demo accounts seeded", zap.String("password", mockBackend.SeedPassword))
			}
			return s.Run(cmd.Context(), a.cfg.MockAddr)
		},
	}
}

// mockStore 配置了DSN时使用MySQL,否则使用内存
func (a *app) mockStore() (*mockBackend.Store, error) {
	if a.cfg.MockDSN == "" {
		return mockBackend.NewMemoryStore(), nil
	}
	gdb, err := db.InitDb(a.cfg.MockDSN)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, sqlDB.Close)
	return mockBackend.NewGormStore(gdb)
}
