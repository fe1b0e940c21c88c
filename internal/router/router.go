package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/config"
	"github.com/Bcardoso2/frigo-galeno-api/internal/handler"
	"github.com/Bcardoso2/frigo-galeno-api/internal/middleware"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
	"github.com/Bcardoso2/frigo-galeno-api/internal/service"
	"github.com/Bcardoso2/frigo-galeno-api/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	estoqueRepo := repository.NewEstoqueRepository(db)
	movimentoRepo := repository.NewMovimentoEstoqueRepository(db)
	estoqueAnimalRepo := repository.NewEstoqueAnimalRepository(db)
	associacaoRepo := repository.NewAssociacaoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	alertaRepo := repository.NewAlertaEscassezRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, rdb)
	estoqueSvc := service.NewEstoqueService(estoqueRepo, movimentoRepo)
	estoqueAnimalSvc := service.NewEstoqueAnimalService(estoqueAnimalRepo)
	rateioSvc := service.NewRateioService(associacaoRepo, estoqueAnimalRepo, cfg.RateioFallback)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	vendaSvc := service.NewVendaService(vendaRepo, produtoRepo, estoqueSvc, estoqueAnimalSvc, rateioSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	estoqueAnimalH := handler.NewEstoqueAnimalHandler(estoqueAnimalSvc)
	associacoesH := handler.NewAssociacoesHandler(rateioSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	alertasH := handler.NewAlertasHandler(alertaRepo)
	consultaH := handler.NewConsultaPrecosHandler(produtoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/preco/:codigo", consultaH.GetPrecoPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, admin — declared per-endpoint
		v1.POST("/vendas", middleware.RequireRole("operador", "admin"), vendasH.RegistrarVenda)
		v1.GET("/vendas", middleware.RequireRole("operador", "admin"), vendasH.ListarVendas)
		v1.GET("/vendas/resumo-diario", middleware.RequireRole("operador", "admin"), vendasH.ResumoDiario)
		v1.GET("/vendas/:id", middleware.RequireRole("operador", "admin"), vendasH.GetVenda)
		v1.DELETE("/vendas/:id", middleware.RequireRole("admin"), vendasH.CancelarVenda)

		v1.GET("/produtos", middleware.RequireRole("operador", "admin"), produtosH.Listar)
		v1.GET("/produtos/:id", middleware.RequireRole("operador", "admin"), produtosH.Get)
		prods := v1.Group("/produtos", middleware.RequireRole("admin"))
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
		}

		v1.GET("/estoque", middleware.RequireRole("operador", "admin"), estoqueH.Listar)
		v1.GET("/estoque/:produto_id", middleware.RequireRole("operador", "admin"), estoqueH.Get)
		v1.GET("/estoque/:produto_id/movimentos", middleware.RequireRole("operador", "admin"), estoqueH.ListarMovimentos)
		v1.PUT("/estoque/:produto_id", middleware.RequireRole("admin"), estoqueH.Definir)

		animal := v1.Group("/estoque-animal", middleware.RequireRole("admin"))
		{
			animal.POST("", estoqueAnimalH.CriarLote)
			animal.PUT("/:id", estoqueAnimalH.AtualizarLote)
			animal.DELETE("/:id", estoqueAnimalH.RemoverLote)
		}
		v1.GET("/estoque-animal", middleware.RequireRole("operador", "admin"), estoqueAnimalH.ListarLotes)
		v1.GET("/estoque-animal/agregados", middleware.RequireRole("operador", "admin"), estoqueAnimalH.ListarAgregados)
		v1.GET("/estoque-animal/:id", middleware.RequireRole("operador", "admin"), estoqueAnimalH.GetLote)

		assoc := v1.Group("/associacoes", middleware.RequireRole("admin"))
		{
			assoc.POST("", associacoesH.Associar)
			assoc.DELETE("/:id", associacoesH.Remover)
		}
		v1.GET("/produtos/:id/associacoes", middleware.RequireRole("operador", "admin"), associacoesH.ListarPorProduto)

		alertas := v1.Group("/alertas-escassez", middleware.RequireRole("admin"))
		{
			alertas.GET("", alertasH.ListarPendentes)
			alertas.PATCH("/:id/revisar", alertasH.MarcarRevisado)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
	}

	return r
}
