package painelservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/logger"
	"gowms/internal/service/painelservice"
)

type MockPainelRepository struct {
	mock.Mock
}

func (m *MockPainelRepository) CabecalhosSaida(ctx context.Context, status string) ([]domain.PainelSaidaCabecalho, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.PainelSaidaCabecalho), args.Error(1)
}

func (m *MockPainelRepository) ItensSaida(ctx context.Context, prenota string) ([]domain.PainelSaidaItem, error) {
	args := m.Called(ctx, prenota)
	return args.Get(0).([]domain.PainelSaidaItem), args.Error(1)
}

func (m *MockPainelRepository) CabecalhosEntrada(ctx context.Context, status string) ([]domain.PainelEntradaCabecalho, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.PainelEntradaCabecalho), args.Error(1)
}

func (m *MockPainelRepository) ItensEntrada(ctx context.Context, nota string) ([]domain.PainelEntradaItem, error) {
	args := m.Called(ctx, nota)
	return args.Get(0).([]domain.PainelEntradaItem), args.Error(1)
}

// memCache é um cache em memória mínimo para os testes.
type memCache struct {
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Incr(context.Context, string, time.Duration) (int64, error) { return 1, nil }

func TestSaida_UsesCacheOnSecondCall(t *testing.T) {
	repo := new(MockPainelRepository)
	svc := painelservice.NewService(repo, newMemCache(), time.Minute, logger.NewLogger("debug"))

	repo.On("CabecalhosSaida", mock.Anything, "").
		Return([]domain.PainelSaidaCabecalho{{Prenota: "100", Cliente: "Cliente A", Status: "ABERTA"}}, nil).Once()

	first, err := svc.Saida(context.Background(), domain.PainelFiltro{})
	require.NoError(t, err)
	second, err := svc.Saida(context.Background(), domain.PainelFiltro{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "CabecalhosSaida", 1)
}

func TestSaida_AtualizarBypassesCache(t *testing.T) {
	repo := new(MockPainelRepository)
	svc := painelservice.NewService(repo, newMemCache(), time.Minute, logger.NewLogger("debug"))

	repo.On("CabecalhosSaida", mock.Anything, "ABERTA").
		Return([]domain.PainelSaidaCabecalho{{Prenota: "100"}}, nil).Twice()

	_, err := svc.Saida(context.Background(), domain.PainelFiltro{Status: "ABERTA"})
	require.NoError(t, err)
	_, err = svc.Saida(context.Background(), domain.PainelFiltro{Status: "ABERTA", Atualizar: true})
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "CabecalhosSaida", 2)
}

func TestEntrada_NoopCacheAlwaysHitsRepository(t *testing.T) {
	repo := new(MockPainelRepository)
	svc := painelservice.NewService(repo, cache.NoopClient{}, time.Minute, logger.NewLogger("debug"))

	repo.On("CabecalhosEntrada", mock.Anything, "").Return([]domain.PainelEntradaCabecalho{}, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Entrada(context.Background(), domain.PainelFiltro{})
		require.NoError(t, err)
	}

	repo.AssertNumberOfCalls(t, "CabecalhosEntrada", 3)
}

func TestItensSaida_UnknownDocument(t *testing.T) {
	repo := new(MockPainelRepository)
	svc := painelservice.NewService(repo, cache.NoopClient{}, time.Minute, logger.NewLogger("debug"))

	repo.On("ItensSaida", mock.Anything, "999").Return([]domain.PainelSaidaItem{}, nil)

	_, err := svc.ItensSaida(context.Background(), "999")

	assert.True(t, apperror.IsNotFound(err))
}
