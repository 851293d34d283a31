package main

import (
	"fmt"
	"os"

	"ModelBoard/internal/api"
	"ModelBoard/internal/config"
	"ModelBoard/internal/database"
	"ModelBoard/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configDir string

func main() {
	rootCmd := &cobra.Command{
		Use:           "modelboard",
		Short:         "Community leaderboard for language models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "./config", "directory containing config.yaml")

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger 按配置初始化日志
func newLogger(cfg config.LogConfig) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// bootstrap 加载配置、连接数据库并迁移表结构
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	// 1. 加载配置文件
	cfg, err := config.LoadConfigFrom(configDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("加载配置文件失败: %w", err)
	}

	// 2. 初始化日志
	logger := newLogger(cfg.Log)
	logger.Info("配置文件加载成功")

	// 3. 连接数据库（postgres 库不存在则先创建）
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	// 4. 库表不存在则自动创建
	if err := database.Migrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("数据库表结构迁移失败: %w", err)
	}
	logger.Info("数据库表结构检查完成（不存在则已创建）")
	return cfg, logger, db, nil
}

func newServeCmd() *cobra.Command {
	var withSeed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			if withSeed {
				if err := seed.Run(cmd.Context(), db, logger); err != nil {
					return err
				}
			}

			// 配置Gin运行模式（从配置读取：debug/release）
			gin.SetMode(cfg.Server.Mode)
			logger.Infof("Gin运行模式: %s", cfg.Server.Mode)
			if cfg.Session.Secret == config.DefaultSessionSecret {
				logger.Warn("SESSION_SECRET 使用默认值，生产环境请修改")
			}

			r := api.NewRouter(db, logger, cfg)

			port := cfg.Server.Port
			logger.Infof("服务启动成功，端口：%d", port)
			return r.Run(fmt.Sprintf(":%d", port))
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "insert sample data before starting")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database if needed and migrate tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, _, err := bootstrap()
			return err
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample use cases, benchmarks and models (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			return seed.Run(cmd.Context(), db, logger)
		},
	}
}
