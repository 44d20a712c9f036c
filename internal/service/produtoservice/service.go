package produtoservice

import (
	"context"
	"strings"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// ProdutoRepository define o contrato que o Serviço de Produto espera da camada de Persistência.
type ProdutoRepository interface {
	Listar(ctx context.Context, f domain.ProdutoFiltro) ([]domain.Produto, error)
	SemEndereco(ctx context.Context) ([]domain.Produto, error)
	Lotes(ctx context.Context, codProduto string) ([]domain.Lote, error)
}

// Service expõe a leitura de produtos. Produtos vêm do ERP e não são alterados aqui.
type Service struct {
	repo   ProdutoRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProdutoRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Listar devolve os produtos do filtro, marcando os que estão abaixo do facing.
func (s *Service) Listar(ctx context.Context, f domain.ProdutoFiltro) ([]domain.Produto, error) {
	f.Normalizar()

	s.logger.Debug("Listando produtos.", map[string]interface{}{
		"busca": f.Busca, "com_estoque": f.ComEstoque, "pagina": f.Pagina, "limite": f.Limite,
	})

	produtos, err := s.repo.Listar(ctx, f)
	if err != nil {
		return nil, err
	}
	return marcarFacing(produtos), nil
}

// SemEndereco devolve produtos com estoque que ainda não foram endereçados.
func (s *Service) SemEndereco(ctx context.Context) ([]domain.Produto, error) {
	produtos, err := s.repo.SemEndereco(ctx)
	if err != nil {
		return nil, err
	}
	return marcarFacing(produtos), nil
}

// Lotes devolve os lotes do produto.
func (s *Service) Lotes(ctx context.Context, codProduto string) ([]domain.Lote, error) {
	codProduto = strings.TrimSpace(codProduto)
	if codProduto == "" {
		return nil, apperror.NewValidationError("Código do produto é obrigatório.")
	}
	return s.repo.Lotes(ctx, codProduto)
}

func marcarFacing(produtos []domain.Produto) []domain.Produto {
	for i := range produtos {
		produtos[i].AbaixoFacing = produtos[i].PrecisaReposicao()
	}
	return produtos
}
