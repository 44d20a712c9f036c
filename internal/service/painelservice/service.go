package painelservice

import (
	"context"
	"strings"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/logger"
)

// PainelRepository define o contrato que o Serviço de Painel espera da camada de Persistência.
type PainelRepository interface {
	CabecalhosSaida(ctx context.Context, status string) ([]domain.PainelSaidaCabecalho, error)
	ItensSaida(ctx context.Context, prenota string) ([]domain.PainelSaidaItem, error)
	CabecalhosEntrada(ctx context.Context, status string) ([]domain.PainelEntradaCabecalho, error)
	ItensEntrada(ctx context.Context, nota string) ([]domain.PainelEntradaItem, error)
}

// Service serve os painéis. As listagens de cabeçalho ficam no cache por ttl; o painel
// é consultado periodicamente por vários terminais ao mesmo tempo.
type Service struct {
	repo   PainelRepository
	cache  cache.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewService(repo PainelRepository, cacheClient cache.Client, ttl time.Duration, logger logger.Logger) *Service {
	return &Service{repo: repo, cache: cacheClient, ttl: ttl, logger: logger}
}

// Saida lista as pré-notas do painel de saída.
func (s *Service) Saida(ctx context.Context, f domain.PainelFiltro) ([]domain.PainelSaidaCabecalho, error) {
	status := strings.TrimSpace(f.Status)
	return cached(ctx, s, "painel:saida:"+status, f.Atualizar, func() ([]domain.PainelSaidaCabecalho, error) {
		return s.repo.CabecalhosSaida(ctx, status)
	})
}

// ItensSaida devolve os itens da pré-nota; 404 quando ela não existe no painel.
func (s *Service) ItensSaida(ctx context.Context, prenota string) ([]domain.PainelSaidaItem, error) {
	prenota = strings.TrimSpace(prenota)
	if prenota == "" {
		return nil, apperror.NewValidationError("Pré-nota é obrigatória.")
	}
	itens, err := s.repo.ItensSaida(ctx, prenota)
	if err != nil {
		return nil, err
	}
	if len(itens) == 0 {
		return nil, apperror.NewNotFoundError("Pré-nota não encontrada.")
	}
	return itens, nil
}

// Entrada lista as notas do painel de entrada.
func (s *Service) Entrada(ctx context.Context, f domain.PainelFiltro) ([]domain.PainelEntradaCabecalho, error) {
	status := strings.TrimSpace(f.Status)
	return cached(ctx, s, "painel:entrada:"+status, f.Atualizar, func() ([]domain.PainelEntradaCabecalho, error) {
		return s.repo.CabecalhosEntrada(ctx, status)
	})
}

// ItensEntrada devolve os itens da nota; 404 quando ela não existe no painel.
func (s *Service) ItensEntrada(ctx context.Context, nota string) ([]domain.PainelEntradaItem, error) {
	nota = strings.TrimSpace(nota)
	if nota == "" {
		return nil, apperror.NewValidationError("Nota é obrigatória.")
	}
	itens, err := s.repo.ItensEntrada(ctx, nota)
	if err != nil {
		return nil, err
	}
	if len(itens) == 0 {
		return nil, apperror.NewNotFoundError("Nota não encontrada.")
	}
	return itens, nil
}

// cached devolve o valor de key no cache; em miss (ou atualizar) chama load e grava o resultado.
// Falhas do cache só são logadas: o banco continua sendo a fonte.
func cached[T any](ctx context.Context, s *Service, key string, atualizar bool, load func() (T, error)) (T, error) {
	if !atualizar {
		var hit T
		err := cache.GetJSON(ctx, s.cache, key, &hit)
		if err == nil {
			s.logger.Debug("Cache hit.", map[string]interface{}{"key": key})
			return hit, nil
		}
		if !cache.IsMiss(err) {
			s.logger.Warn("Falha ao ler cache do painel.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	data, err := load()
	if err != nil {
		return data, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, data, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar cache do painel.", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return data, nil
}
