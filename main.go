package main

import (
	"flag"
	"log"
	"strings"

	"financas/api"
	"financas/config"
	"financas/database"
	"financas/logger"
	"financas/middleware"
	"financas/repository"
	"financas/repository/memory"
	"financas/router"
	"financas/service"
)

// @title Finanças API
// @version 1.0
// @description 个人记账 API：收入登记、单笔/分期/周期消费、月度看板与 Excel 导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	testEmail   string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.StringVar(&testEmail, "test-email", "", "发送一封测试邮件到指定地址后退出")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

// openStore 按配置选择存储
func openStore(cfg *config.Config, appLog *logger.Logger) (repository.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		appLog.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	db, err := database.Open(cfg, appLog)
	if err != nil {
		return nil, err
	}
	return repository.NewGormStore(db), nil
}

func main() {
	flag.Parse()

	if showVersion {
		log.Printf("Finanças v%s", version)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	config.PrintConfig()

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger.SetDefault(appLog)

	mailer := service.NewEmailService(&cfg.Email, appLog)
	if testEmail != "" {
		if err := mailer.SendTestEmail(testEmail); err != nil {
			log.Fatalf("测试邮件发送失败: %v", err)
		}
		log.Printf("测试邮件已发送到 %s", testEmail)
		return
	}

	store, err := openStore(cfg, appLog)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	dashboard := service.NewDashboardAggregator(store, appLog)
	transactions := service.NewTransactionService(store, appLog)
	generator := service.NewExpenseGenerator(store, service.GeneratorLimits{
		MaxInstallments: cfg.Expense.MaxInstallments,
		MaxOccurrences:  cfg.Expense.MaxOccurrences,
	}, appLog)

	r := router.SetupRouter(cfg, router.Handlers{
		Auth: api.NewAuthHandler(service.NewAuthService(store, mailer, appLog), cfg.JWT.ExpireTime),
		User: api.NewUserHandler(
			service.NewUserService(store, appLog),
			dashboard,
			service.NewExportService(dashboard, appLog),
		),
		Transaction: api.NewTransactionHandler(generator, transactions),
		Category:    api.NewCategoryHandler(transactions),
	}, appLog)

	appLog.Info("server starting",
		"addr", cfg.Server.Port,
		"swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html",
	)

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
