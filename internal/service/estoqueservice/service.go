package estoqueservice

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// EstoqueRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type EstoqueRepository interface {
	Inserir(ctx context.Context, e domain.EstoqueLocal) (domain.EstoqueLocal, error)
	AtualizarQuantidade(ctx context.Context, chave domain.ChaveEstoque, nova decimal.Decimal) (decimal.Decimal, domain.EstoqueLocal, error)
	Remover(ctx context.Context, chave domain.ChaveEstoque) (domain.EstoqueLocal, error)
	ListarPorProduto(ctx context.Context, codProduto string) ([]domain.EstoqueEndereco, error)
	ListarPorProdutoLote(ctx context.Context, codProduto, lote string) ([]domain.EstoqueEndereco, error)
	ListarPorEndereco(ctx context.Context, codEndereco string) ([]domain.EstoqueEndereco, error)
}

// Auditor registra a variação de estoque depois do commit. Não devolve erro.
type Auditor interface {
	Registrar(ctx context.Context, chave domain.ChaveEstoque, delta decimal.Decimal, usuario string)
}

// Service concentra as alterações de estoque por endereço e a auditoria que elas geram,
// tanto para produtos com lote quanto sem lote.
type Service struct {
	repo    EstoqueRepository
	auditor Auditor
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo EstoqueRepository, auditor Auditor, logger logger.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, logger: logger}
}

// Vincular cria o estoque do produto/lote no endereço. Quantidade inicial positiva gera
// auditoria de entrada.
func (s *Service) Vincular(ctx context.Context, in domain.MovimentoEstoqueInput) (domain.EstoqueLocal, error) {
	chave, err := validarChave(in.CodProduto, in.CodEndereco, in.Lote)
	if err != nil {
		return domain.EstoqueLocal{}, err
	}
	qtde, err := validarQuantidade(in.QuantidadeInformada())
	if err != nil {
		return domain.EstoqueLocal{}, err
	}

	s.logger.Debug("Vinculando produto ao endereço.", map[string]interface{}{
		"codproduto": chave.CodProduto, "codendereco": chave.CodEndereco, "lote": chave.Lote, "qtde": qtde.String(),
	})

	created, err := s.repo.Inserir(ctx, domain.EstoqueLocal{
		CodProduto:  chave.CodProduto,
		CodEndereco: chave.CodEndereco,
		Lote:        chave.Lote,
		Quantidade:  qtde,
	})
	if err != nil {
		return domain.EstoqueLocal{}, wrap("Falha interna ao vincular produto ao endereço.", err)
	}

	s.auditor.Registrar(ctx, chave, created.Quantidade, in.Usuario)

	s.logger.Info("Produto vinculado ao endereço.", map[string]interface{}{
		"codproduto": chave.CodProduto, "codendereco": chave.CodEndereco, "lote": chave.Lote,
	})
	return created, nil
}

// AlterarQuantidade sobrescreve a quantidade e audita a diferença: entrada quando aumenta,
// saída quando diminui, nada quando não muda.
func (s *Service) AlterarQuantidade(ctx context.Context, in domain.MovimentoEstoqueInput) (domain.EstoqueLocal, error) {
	chave, err := validarChave(in.CodProduto, in.CodEndereco, in.Lote)
	if err != nil {
		return domain.EstoqueLocal{}, err
	}
	nova, err := validarQuantidade(in.QuantidadeInformada())
	if err != nil {
		return domain.EstoqueLocal{}, err
	}

	anterior, atual, err := s.repo.AtualizarQuantidade(ctx, chave, nova)
	if err != nil {
		return domain.EstoqueLocal{}, wrap("Falha interna ao atualizar estoque do endereço.", err)
	}

	s.auditor.Registrar(ctx, chave, atual.Quantidade.Sub(anterior), in.Usuario)

	s.logger.Info("Quantidade do endereço atualizada.", map[string]interface{}{
		"codproduto": chave.CodProduto, "codendereco": chave.CodEndereco, "lote": chave.Lote,
		"anterior": anterior.String(), "atual": atual.Quantidade.String(),
	})
	return atual, nil
}

// Desvincular remove o produto/lote do endereço. Havendo saldo, audita a saída total.
func (s *Service) Desvincular(ctx context.Context, chave domain.ChaveEstoque, usuario string) error {
	chave, err := validarChave(chave.CodProduto, chave.CodEndereco, chave.Lote)
	if err != nil {
		return err
	}

	removed, err := s.repo.Remover(ctx, chave)
	if err != nil {
		return wrap("Falha interna ao remover produto do endereço.", err)
	}

	if removed.Quantidade.IsPositive() {
		s.auditor.Registrar(ctx, chave, removed.Quantidade.Neg(), usuario)
	}

	s.logger.Info("Produto removido do endereço.", map[string]interface{}{
		"codproduto": chave.CodProduto, "codendereco": chave.CodEndereco, "lote": chave.Lote,
	})
	return nil
}

// ListarPorProduto devolve os endereços onde o produto está guardado.
func (s *Service) ListarPorProduto(ctx context.Context, codProduto string) ([]domain.EstoqueEndereco, error) {
	codProduto = strings.TrimSpace(codProduto)
	if codProduto == "" {
		return nil, apperror.NewValidationError("Código do produto é obrigatório.")
	}
	itens, err := s.repo.ListarPorProduto(ctx, codProduto)
	return itens, wrap("Falha interna ao listar endereços do produto.", err)
}

// ListarPorProdutoLote devolve os endereços do lote. O lote "sem-lote" corresponde a lote vazio.
func (s *Service) ListarPorProdutoLote(ctx context.Context, codProduto, lote string) ([]domain.EstoqueEndereco, error) {
	codProduto = strings.TrimSpace(codProduto)
	if codProduto == "" {
		return nil, apperror.NewValidationError("Código do produto é obrigatório.")
	}
	itens, err := s.repo.ListarPorProdutoLote(ctx, codProduto, domain.LoteDaRota(lote))
	return itens, wrap("Falha interna ao listar endereços do lote.", err)
}

// ListarPorEndereco devolve os produtos guardados no endereço.
func (s *Service) ListarPorEndereco(ctx context.Context, codEndereco string) ([]domain.EstoqueEndereco, error) {
	codEndereco = strings.TrimSpace(codEndereco)
	if codEndereco == "" {
		return nil, apperror.NewValidationError("Código do endereço é obrigatório.")
	}
	itens, err := s.repo.ListarPorEndereco(ctx, codEndereco)
	return itens, wrap("Falha interna ao listar produtos do endereço.", err)
}

func validarChave(codProduto, codEndereco, lote string) (domain.ChaveEstoque, error) {
	chave := domain.ChaveEstoque{
		CodProduto:  strings.TrimSpace(codProduto),
		CodEndereco: strings.TrimSpace(codEndereco),
		Lote:        domain.LoteDaRota(strings.TrimSpace(lote)),
	}
	if chave.CodProduto == "" {
		return chave, apperror.NewValidationError("Código do produto é obrigatório.")
	}
	if chave.CodEndereco == "" {
		return chave, apperror.NewValidationError("Código do endereço é obrigatório.")
	}
	return chave, nil
}

func validarQuantidade(q domain.Quantidade) (decimal.Decimal, error) {
	if !q.Presente {
		return decimal.Zero, apperror.NewValidationError("Quantidade é obrigatória.")
	}
	if !q.Valida || !domain.QuantidadeNoLimite(q.Valor) {
		return decimal.Zero, apperror.NewValidationError("Quantidade inválida.")
	}
	if q.Valor.IsNegative() {
		return decimal.Zero, apperror.NewValidationError("Quantidade não pode ser negativa.")
	}
	return q.Valor, nil
}

// wrap mantém os AppError do repositório e embrulha o resto como erro interno.
func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(apperror.AppError); ok {
		return err
	}
	return apperror.NewInternalError(msg, err)
}
