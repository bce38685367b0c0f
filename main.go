package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/camdash/camdash/config"
	"github.com/camdash/camdash/database"
	"github.com/camdash/camdash/logger"
	"github.com/camdash/camdash/web"
	"github.com/camdash/camdash/web/service"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func initLogger() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG, config.GetLogFolder())
	case config.Info:
		logger.InitLogger(logging.INFO, config.GetLogFolder())
	case config.Notice:
		logger.InitLogger(logging.NOTICE, config.GetLogFolder())
	case config.Warn:
		logger.InitLogger(logging.WARNING, config.GetLogFolder())
	case config.Error:
		logger.InitLogger(logging.ERROR, config.GetLogFolder())
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func newServer(userService *service.UserService) (*web.Server, error) {
	cfg, err := config.GetWebConfig()
	if err != nil {
		return nil, err
	}
	return web.NewServer(cfg, userService), nil
}

func runWebServer() {
	initLogger()
	defer logger.CloseLogger()
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	db, err := database.InitDB(config.GetDefaultDatabaseConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			logger.Warning("close db err:", err)
		}
	}()

	userService := service.NewUserService(db)

	server, err := newServer(userService)
	if err != nil {
		logger.Error(err)
		return
	}
	if err = server.Start(); err != nil {
		logger.Error(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP, restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			if err := config.LoadEnv(); err != nil {
				logger.Warning("reload env err:", err)
			}
			server, err = newServer(userService)
			if err != nil {
				logger.Error(err)
				return
			}
			if err = server.Start(); err != nil {
				logger.Error(err)
				return
			}
		default:
			logger.Infof("Received %v, shutting down", sig)
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	dbConfig := config.GetDefaultDatabaseConfig()
	if f, err := os.Open(dbConfig.Path); err == nil {
		isSQLite, err := database.IsSQLiteDB(f)
		_ = f.Close()
		if err != nil || !isSQLite {
			fmt.Println("not a SQLite database:", dbConfig.Path)
			os.Exit(1)
		}
	}

	fmt.Println("Start migrating database...")
	db, err := database.InitDB(dbConfig)
	if err != nil {
		fmt.Println("migrate failed:", err)
		os.Exit(1)
	}
	defer closeQuietly(db)

	count, err := service.NewUserService(db).CountUsers()
	if err != nil {
		fmt.Println("count users failed:", err)
		return
	}
	fmt.Printf("Migration done, %s holds %d user(s)\n", dbConfig.Path, count)
}

func closeQuietly(db *gorm.DB) {
	if err := database.CloseDB(db); err != nil {
		fmt.Println("close db failed:", err)
	}
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var rootCmd = &cobra.Command{
		Use:   config.GetName(),
		Short: "Login-protected dashboard and stream viewer",
		// running without a subcommand starts the server
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetName(), config.GetVersion())
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
