package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gowms/config"
	_ "gowms/docs"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/report"
	"gowms/internal/pkg/token"

	// Handlers
	"gowms/internal/api/acesso"
	"gowms/internal/api/auth"
	"gowms/internal/api/configuracao"
	"gowms/internal/api/dashboard"
	"gowms/internal/api/endereco"
	"gowms/internal/api/painel"
	"gowms/internal/api/produto"
	"gowms/internal/api/relatorio"
	"gowms/internal/api/router"

	// Acesso a dados
	"gowms/internal/repository/acessorepo"
	"gowms/internal/repository/auditoriarepo"
	"gowms/internal/repository/configrepo"
	"gowms/internal/repository/enderecorepo"
	"gowms/internal/repository/estoquerepo"
	"gowms/internal/repository/painelrepo"
	"gowms/internal/repository/produtorepo"
	"gowms/internal/repository/relatoriorepo"
	"gowms/internal/repository/usuariorepo"

	// Regras de negócio
	"gowms/internal/service/acessoservice"
	"gowms/internal/service/auditoriaservice"
	"gowms/internal/service/authservice"
	"gowms/internal/service/configservice"
	"gowms/internal/service/enderecoservice"
	"gowms/internal/service/estoqueservice"
	"gowms/internal/service/painelservice"
	"gowms/internal/service/produtoservice"
	"gowms/internal/service/relatorioservice"
)

func main() {
	log.Println("⚡ Inicializando serviço GoWMS...")
	// Sem .env seguimos só com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	var appLog logger.Logger
	if cfg.IsDevelopment() {
		appLog = logger.NewDevelopmentLogger(cfg.LogLevel)
	} else {
		appLog = logger.NewLogger(cfg.LogLevel)
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{"environment": cfg.Environment, "table_prefix": cfg.TablePrefix})

	// 1. Infraestrutura

	tables, err := database.NewTables(cfg.TablePrefix)
	if err != nil {
		appLog.Fatal("Prefixo de tabelas inválido.", err)
	}

	db, err := database.NewPostgresDB(cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	var cacheClient cache.Client = cache.NoopClient{}
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			appLog.Warn("Redis indisponível; seguindo sem cache e sem rate limit.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		} else {
			cacheClient = redisClient
			appLog.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
		}
	} else {
		appLog.Info("REDIS_ADDR vazio; cache desligado.", nil)
	}

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 2. Repositórios

	enderecoRepo := enderecorepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	estoqueRepo := estoquerepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	auditoriaRepo := auditoriarepo.NewRepository(db, tables, cfg.DBTimeout)
	produtoRepo := produtorepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	painelRepo := painelrepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	usuarioRepo := usuariorepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	acessoRepo := acessorepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	configRepo := configrepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	relatorioRepo := relatoriorepo.NewRepository(db, tables, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// 3. Serviços

	configSvc := configservice.NewService(configRepo, appLog)
	auditoriaSvc := auditoriaservice.NewService(auditoriaRepo, appLog, cfg.DBTimeout)
	estoqueSvc := estoqueservice.NewService(estoqueRepo, auditoriaSvc, appLog)
	enderecoSvc := enderecoservice.NewService(enderecoRepo, estoqueRepo, configSvc, appLog)
	produtoSvc := produtoservice.NewService(produtoRepo, appLog)
	painelSvc := painelservice.NewService(painelRepo, cacheClient, cfg.CacheTTL, appLog)
	acessoSvc := acessoservice.NewService(acessoRepo, usuarioRepo, cacheClient, cfg.CacheTTL, cfg.PasswordScheme, appLog)
	authSvc := authservice.NewService(usuarioRepo, acessoRepo, configSvc, tokenSvc, appLog)
	relatorioSvc := relatorioservice.NewService(relatorioRepo, configSvc, report.NewEnderecosPDF(), appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// 4. Handlers e roteador

	handlers := router.Handlers{
		Endereco:     endereco.NewHandler(enderecoSvc, estoqueSvc, appLog),
		Produto:      produto.NewHandler(produtoSvc, estoqueSvc, appLog),
		Painel:       painel.NewHandler(painelSvc, appLog),
		Auth:         auth.NewHandler(authSvc, appLog),
		Acesso:       acesso.NewHandler(acessoSvc, appLog),
		Configuracao: configuracao.NewHandler(configSvc, appLog),
		Dashboard:    dashboard.NewHandler(relatorioSvc, appLog),
		Relatorio:    relatorio.NewHandler(relatorioSvc, appLog),
	}
	r := router.NewRouter(handlers, router.Options{
		Tokens:          tokenSvc,
		Permissions:     acessoSvc,
		Cache:           cacheClient,
		RateLimit:       cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		Logger:          appLog,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoWMS ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}
	if closer, ok := cacheClient.(interface{ Close() error }); ok {
		closer.Close()
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
