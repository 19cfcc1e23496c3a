package main

import (
	"go.uber.org/zap"

	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/payment"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.GoEnv); err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.L().Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.Coupon{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		logger.L().Fatal("auto migrate failed", zap.Error(err))
	}

	//セッションストア（Redis）
	store, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.L().Fatal("redis connect failed", zap.Error(err))
	}
	defer store.Close()

	//決済ゲートウェイ
	gateway := payment.NewSnapClient(cfg.MidtransServerKey, cfg.MidtransIsProduction)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	itemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(&cfg, userRepo, customerRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, reviewRepo)
	cartUC := usecase.NewCartUsecase(store, productRepo, couponRepo, &cfg)
	checkoutUC := usecase.NewCheckoutUsecase(store, userRepo, customerRepo, productRepo, couponRepo, orderRepo, itemRepo, txManager, gateway, &cfg)
	paymentUC := usecase.NewPaymentUsecase(orderRepo, customerRepo, txManager)
	orderUC := usecase.NewOrderUsecase(orderRepo, itemRepo, customerRepo)
	reviewUC := usecase.NewReviewUsecase(productRepo, customerRepo, txManager)
	customerUC := usecase.NewCustomerUsecase(userRepo, customerRepo)
	adminProductUC := usecase.NewAdminProductUsecase(productRepo, categoryRepo, txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo, itemRepo, txManager)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		Order:        handler.NewOrderHandler(orderUC),
		Review:       handler.NewReviewHandler(reviewUC),
		Customer:     handler.NewCustomerHandler(customerUC),
		AdminProduct: handler.NewAdminProductHandler(adminProductUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
	}

	//Server起動
	e := server.New(&cfg)
	server.RegisterRoutes(e, &cfg, handlers)

	logger.L().Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.GoEnv))
	if err := server.Start(e, &cfg); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
