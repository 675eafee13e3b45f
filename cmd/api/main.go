package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/aurelhr/payroll-backend-go/internal/config"
	appHTTP "github.com/aurelhr/payroll-backend-go/internal/handler/http"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/database"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/document"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/jwt"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/storage"
	"github.com/aurelhr/payroll-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/aurelhr/payroll-backend-go/internal/service/auth"
	servicePayroll "github.com/aurelhr/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	renderer := document.NewPayslipRenderer(fileStorage, cfg.App.CompanyName)
	loader := spreadsheet.NewExcelLoader()

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	payrollService := servicePayroll.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		userRepo,
		loader,
		fileStorage,
		renderer,
	)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService)
	payrollHandler := appHTTP.NewPayrollHandler(payrollService)

	router := appHTTP.NewRouter(JWTService, authHandler, payrollHandler, cfg.App.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
