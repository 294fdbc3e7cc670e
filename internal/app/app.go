// Package app builds the service graph shared by the server, worker and
// seed binaries. Construction order follows the dependency direction:
// payment methods and ledger first, then buildings, apartments, fees.
package app

import (
	"context"
	"fmt"

	"domus/internal/core/config"
	"domus/internal/core/id"
	"domus/internal/domain/auth"
	"domus/internal/domain/catalogs/apartment"
	"domus/internal/domain/catalogs/building"
	"domus/internal/domain/catalogs/paymentmethod"
	"domus/internal/domain/catalogs/resident"
	"domus/internal/domain/expenses"
	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/domain/fees/payment"
	"domus/internal/domain/ledger"
	"domus/internal/infrastructure/storage/postgres"
	"domus/internal/infrastructure/storage/postgres/auth_repo"
	"domus/internal/infrastructure/storage/postgres/catalog_repo"
	"domus/internal/infrastructure/storage/postgres/document_repo"
	"domus/internal/infrastructure/storage/postgres/register_repo"
	"domus/pkg/numerator"
)

// Services bundles every wired domain service.
type Services struct {
	TxManager *postgres.TxManager
	Audit     *postgres.AuditService

	JWT  *auth.JWTService
	Auth *auth.Service

	Buildings      *building.Service
	Apartments     *apartment.Service
	Residents      *resident.Service
	PaymentMethods *paymentmethod.Service
	Ledger         *ledger.Service
	Fees           *monthlyfee.Service
	Payments       *payment.Service
	Expenses       *expenses.Service
}

// Build wires repositories and services on top of the given pool.
func Build(pool *postgres.Pool, cfg *config.Config) (*Services, error) {
	txm := postgres.NewTxManager(pool)
	num := numerator.New(pool.Pool)

	audit, err := postgres.NewAuditService(txm)
	if err != nil {
		return nil, fmt.Errorf("init audit service: %w", err)
	}

	buildingRepo := catalog_repo.NewBuildingRepo(txm)
	apartmentRepo := catalog_repo.NewApartmentRepo(txm)
	residentRepo := catalog_repo.NewResidentRepo(txm)
	methodRepo := catalog_repo.NewPaymentMethodRepo(txm)
	inventoryRepo := catalog_repo.NewInventoryRepo(txm)
	feeRepo := catalog_repo.NewMonthlyFeeRepo(txm)
	allocationRepo := catalog_repo.NewAllocationRepo(txm)
	recurringRepo := catalog_repo.NewRecurringExpenseRepo(txm)
	ledgerRepo := register_repo.NewLedgerRepo(txm)
	paymentRepo := document_repo.NewPaymentRepo(txm)
	expensePaymentRepo := document_repo.NewExpensePaymentRepo(txm)
	oneTimeRepo := document_repo.NewOneTimeExpenseRepo(txm)

	methodSvc := paymentmethod.NewService(methodRepo, txm)
	ledgerSvc := ledger.NewService(inventoryRepo, ledgerRepo, txm, methodSvc, num, audit)
	buildingSvc := building.NewService(buildingRepo, txm, ledgerSvc, num)
	apartmentSvc := apartment.NewService(apartmentRepo, txm, buildingRepo, buildingSvc)
	residentSvc := resident.NewService(residentRepo, txm, apartmentRepo)

	feeSvc := monthlyfee.NewService(feeRepo, allocationRepo, txm, &apartmentRoster{apartments: apartmentSvc})
	apartmentSvc.AddRosterListener(feeSvc)

	paymentSvc := payment.NewService(paymentRepo, feeSvc, ledgerSvc, apartmentSvc, txm)
	expenseSvc := expenses.NewService(recurringRepo, expensePaymentRepo, oneTimeRepo, txm, ledgerSvc, feeSvc, methodSvc)

	jwtCfg := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtCfg.Issuer = cfg.JWTIssuer
	jwtCfg.AccessTokenTTL = cfg.AccessTokenTTL
	jwtSvc := auth.NewJWTService(jwtCfg)

	authSvc := auth.NewService(
		auth_repo.NewUserRepo(txm),
		auth_repo.NewRoleRepo(txm),
		auth_repo.NewTokenRepo(txm),
		txm,
		jwtSvc,
		auth.DefaultServiceConfig(),
	)

	return &Services{
		TxManager: txm,
		Audit:     audit,

		JWT:  jwtSvc,
		Auth: authSvc,

		Buildings:      buildingSvc,
		Apartments:     apartmentSvc,
		Residents:      residentSvc,
		PaymentMethods: methodSvc,
		Ledger:         ledgerSvc,
		Fees:           feeSvc,
		Payments:       paymentSvc,
		Expenses:       expenseSvc,
	}, nil
}

// apartmentRoster turns the apartment list of a building into coefficient
// rows for the allocation engine.
type apartmentRoster struct {
	apartments *apartment.Service
}

func (r *apartmentRoster) CoefficientRows(ctx context.Context, buildingID id.ID, basis string) ([]monthlyfee.CoefficientRow, error) {
	apts, err := r.apartments.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	rows := make([]monthlyfee.CoefficientRow, 0, len(apts))
	for _, a := range apts {
		var coeff float64
		switch monthlyfee.PaymentBasis(basis) {
		case monthlyfee.BasisApartment:
			coeff = 1
		case monthlyfee.BasisResident:
			coeff = float64(a.ResidentsCount)
		case monthlyfee.BasisPet:
			coeff = float64(a.Pets)
		case monthlyfee.BasisCommonParts:
			coeff = a.CommonParts
		case monthlyfee.BasisQuadrature:
			coeff = a.Quadrature
		default:
			return nil, fmt.Errorf("unknown payment basis %q", basis)
		}
		rows = append(rows, monthlyfee.CoefficientRow{
			ApartmentID: a.ID,
			Coefficient: coeff,
		})
	}
	return rows, nil
}
