package enderecoservice_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/service/enderecoservice"
)

type MockEnderecoRepository struct {
	mock.Mock
}

func (m *MockEnderecoRepository) Listar(ctx context.Context) ([]domain.Endereco, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Endereco), args.Error(1)
}

func (m *MockEnderecoRepository) Inserir(ctx context.Context, in domain.EnderecoInput) (domain.Endereco, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Endereco), args.Error(1)
}

func (m *MockEnderecoRepository) Atualizar(ctx context.Context, codEndereco string, in domain.EnderecoInput) (domain.Endereco, error) {
	args := m.Called(ctx, codEndereco, in)
	return args.Get(0).(domain.Endereco), args.Error(1)
}

func (m *MockEnderecoRepository) Remover(ctx context.Context, codEndereco string) error {
	args := m.Called(ctx, codEndereco)
	return args.Error(0)
}

type MockEstoqueLister struct {
	mock.Mock
}

func (m *MockEstoqueLister) ListarTodos(ctx context.Context) ([]domain.EstoqueEndereco, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.EstoqueEndereco), args.Error(1)
}

type stubConfig struct {
	quatroNiveis bool
}

func (s stubConfig) Obter(context.Context) (domain.Configuracao, error) {
	return domain.Configuracao{EnderecoQuatroNiveis: s.quatroNiveis, IntervaloPainelMin: 5}, nil
}

func strp(s string) *string { return &s }

func TestCriar_TrimsAndInserts(t *testing.T) {
	repo := new(MockEnderecoRepository)
	svc := enderecoservice.NewService(repo, new(MockEstoqueLister), stubConfig{}, logger.NewLogger("debug"))

	expected := domain.EnderecoInput{Rua: "A", Predio: "01"}
	repo.On("Inserir", mock.Anything, expected).Return(domain.Endereco{CodEndereco: "E1", Rua: "A", Predio: "01"}, nil)

	created, err := svc.Criar(context.Background(), domain.EnderecoInput{Rua: " A ", Predio: "01", Andar: strp("  ")})

	require.NoError(t, err)
	assert.Equal(t, "E1", created.CodEndereco)
	repo.AssertExpectations(t)
}

func TestCriar_RequiresRuaAndPredio(t *testing.T) {
	repo := new(MockEnderecoRepository)
	svc := enderecoservice.NewService(repo, new(MockEstoqueLister), stubConfig{}, logger.NewLogger("debug"))

	_, err := svc.Criar(context.Background(), domain.EnderecoInput{Predio: "01"})
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = svc.Criar(context.Background(), domain.EnderecoInput{Rua: "A"})
	assert.ErrorAs(t, err, &validation)

	repo.AssertNotCalled(t, "Inserir", mock.Anything, mock.Anything)
}

func TestCriar_FourLevelModeRequiresAndarApto(t *testing.T) {
	repo := new(MockEnderecoRepository)
	svc := enderecoservice.NewService(repo, new(MockEstoqueLister), stubConfig{quatroNiveis: true}, logger.NewLogger("debug"))

	_, err := svc.Criar(context.Background(), domain.EnderecoInput{Rua: "A", Predio: "01", Andar: strp("1")})

	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Apartamento é obrigatório.", validation.Msg)
}

func TestListarComProdutos_GroupsStockByAddress(t *testing.T) {
	repo := new(MockEnderecoRepository)
	estoque := new(MockEstoqueLister)
	svc := enderecoservice.NewService(repo, estoque, stubConfig{}, logger.NewLogger("debug"))

	repo.On("Listar", mock.Anything).Return([]domain.Endereco{
		{CodEndereco: "E1", Rua: "A", Predio: "01"},
		{CodEndereco: "E2", Rua: "A", Predio: "02"},
	}, nil)
	estoque.On("ListarTodos", mock.Anything).Return([]domain.EstoqueEndereco{
		{CodProduto: "P1", CodEndereco: "E1", Quantidade: decimal.NewFromInt(4)},
		{CodProduto: "P2", CodEndereco: "E1", Quantidade: decimal.NewFromInt(1)},
	}, nil)

	out, err := svc.ListarComProdutos(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0].Produtos, 2)
	assert.NotNil(t, out[1].Produtos)
	assert.Empty(t, out[1].Produtos)
}

func TestRemover_PropagatesRefusal(t *testing.T) {
	repo := new(MockEnderecoRepository)
	svc := enderecoservice.NewService(repo, new(MockEstoqueLister), stubConfig{}, logger.NewLogger("debug"))

	repo.On("Remover", mock.Anything, "E1").
		Return(apperror.NewValidationError("Endereço possui produtos vinculados e não pode ser excluído."))

	err := svc.Remover(context.Background(), "E1")

	status, _, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Endereço possui produtos vinculados e não pode ser excluído.", msg)
}
