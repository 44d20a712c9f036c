package auditoriaservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
	"gowms/internal/service/auditoriaservice"
)

type MockAuditoriaRepository struct {
	mock.Mock
}

func (m *MockAuditoriaRepository) Inserir(ctx context.Context, a domain.AuditoriaEndereco) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

var chave = domain.ChaveEstoque{CodProduto: "ABC123", CodEndereco: "E01", Lote: ""}

func TestRegistrar_Saida(t *testing.T) {
	mockRepo := new(MockAuditoriaRepository)
	svc := auditoriaservice.NewService(mockRepo, logger.NewLogger("debug"), time.Second)

	mockRepo.On("Inserir", mock.Anything, mock.MatchedBy(func(a domain.AuditoriaEndereco) bool {
		return a.Tipo == domain.MovimentoSaida && a.Quantidade.Equal(decimal.NewFromInt(3)) && a.Usuario == "ADMIN"
	})).Return(nil)

	svc.Registrar(context.Background(), chave, decimal.NewFromInt(-3), "ADMIN")

	mockRepo.AssertExpectations(t)
}

func TestRegistrar_ZeroDeltaWritesNothing(t *testing.T) {
	mockRepo := new(MockAuditoriaRepository)
	svc := auditoriaservice.NewService(mockRepo, logger.NewLogger("debug"), time.Second)

	svc.Registrar(context.Background(), chave, decimal.Zero, "ADMIN")

	mockRepo.AssertNotCalled(t, "Inserir", mock.Anything, mock.Anything)
}

func TestRegistrar_FailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockAuditoriaRepository)
	svc := auditoriaservice.NewService(mockRepo, logger.NewLogger("debug"), time.Second)

	mockRepo.On("Inserir", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	assert.NotPanics(t, func() {
		svc.Registrar(context.Background(), chave, decimal.NewFromInt(10), "ADMIN")
	})
	mockRepo.AssertExpectations(t)
}

func TestRegistrar_IgnoresRequestCancellation(t *testing.T) {
	mockRepo := new(MockAuditoriaRepository)
	svc := auditoriaservice.NewService(mockRepo, logger.NewLogger("debug"), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockRepo.On("Inserir", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).Return(nil)

	svc.Registrar(ctx, chave, decimal.NewFromInt(1), "ADMIN")

	mockRepo.AssertExpectations(t)
}
