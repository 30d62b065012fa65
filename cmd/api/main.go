package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/appforge/service-builder-go-stdlib/internal/ai"
	"github.com/appforge/service-builder-go-stdlib/internal/asset"
	assetrepo "github.com/appforge/service-builder-go-stdlib/internal/asset/repo"
	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/collab"
	collabrepo "github.com/appforge/service-builder-go-stdlib/internal/collab/repo"
	"github.com/appforge/service-builder-go-stdlib/internal/component"
	componentrepo "github.com/appforge/service-builder-go-stdlib/internal/component/repo"
	"github.com/appforge/service-builder-go-stdlib/internal/project"
	projectrepo "github.com/appforge/service-builder-go-stdlib/internal/project/repo"
	"github.com/appforge/service-builder-go-stdlib/internal/router"
	"github.com/appforge/service-builder-go-stdlib/internal/template"
	templaterepo "github.com/appforge/service-builder-go-stdlib/internal/template/repo"
	"github.com/appforge/service-builder-go-stdlib/internal/user"
	userrepo "github.com/appforge/service-builder-go-stdlib/internal/user/repo"
	"github.com/appforge/service-builder-go-stdlib/pkg/database"
	"github.com/appforge/service-builder-go-stdlib/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-builder-go-stdlib")

	// auth config fails fast on missing or placeholder secrets
	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("auth config: %v", err)
	}

	// init db
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	// repositories
	users := userrepo.NewUserRepo(sqlxDB)
	projects := projectrepo.NewProjectRepo(sqlxDB)
	components := componentrepo.NewComponentRepo(sqlxDB)
	assets := assetrepo.NewAssetRepo(sqlxDB)
	templates := templaterepo.NewTemplateRepo(sqlxDB)
	collabs := collabrepo.NewCollabRepo(sqlxDB)

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer setupCancel()
	for name, ensure := range map[string]func(context.Context) error{
		"users":         users.EnsureTable,
		"projects":      projects.EnsureTable,
		"components":    components.EnsureTable,
		"assets":        assets.EnsureTable,
		"templates":     templates.EnsureTable,
		"collaborators": collabs.EnsureTable,
	} {
		if err := ensure(setupCtx); err != nil {
			sugar.Fatalf("ensure table %s: %v", name, err)
		}
	}

	// services
	hasher := auth.BcryptHasher{Cost: authCfg.BcryptCost}
	issuer := auth.NewIssuer(authCfg.Secret, authCfg.TokenTTL)
	userSvc := user.NewService(users, hasher)
	projectSvc := project.NewService(projects)
	collabSvc := collab.NewService(collabs)
	guard := auth.NewGuard(collabSvc)
	aiClient := ai.NewClient(ai.ConfigFromEnv())
	componentSvc := component.NewService(components, userSvc, aiClient)
	uploadDir := asset.UploadDirFromEnv()
	assetSvc := asset.NewService(assets, uploadDir)
	templateSvc := template.NewService(templates)

	// handlers
	handlers := router.Handlers{
		Users:           user.NewHandler(userSvc, issuer, sugar),
		Projects:        project.NewHandler(projectSvc, guard, sugar),
		Components:      component.NewHandler(componentSvc, projectSvc, guard, sugar),
		Assets:          asset.NewHandler(assetSvc, projectSvc, guard, sugar),
		Templates:       template.NewHandler(templateSvc, sugar),
		Collabs:         collab.NewHandler(collabSvc, projectSvc, guard, sugar),
		RequireIdentity: auth.RequireIdentity(issuer, userSvc, sugar),
		UploadDir:       uploadDir,
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Info("service is running; press Ctrl+C to stop")

	// mount http server
	handler := router.RegisterRoutes(sugar, handlers)
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// ping db once more
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
