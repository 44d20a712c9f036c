package enderecoservice

import (
	"context"
	"strings"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// EnderecoRepository define o contrato que o Serviço de Endereços espera da camada de Persistência.
type EnderecoRepository interface {
	Listar(ctx context.Context) ([]domain.Endereco, error)
	Inserir(ctx context.Context, in domain.EnderecoInput) (domain.Endereco, error)
	Atualizar(ctx context.Context, codEndereco string, in domain.EnderecoInput) (domain.Endereco, error)
	Remover(ctx context.Context, codEndereco string) error
}

// EstoqueLister fornece o estoque de todos os endereços para a listagem com produtos.
type EstoqueLister interface {
	ListarTodos(ctx context.Context) ([]domain.EstoqueEndereco, error)
}

// ConfiguracaoProvider informa se o endereçamento usa quatro níveis.
type ConfiguracaoProvider interface {
	Obter(ctx context.Context) (domain.Configuracao, error)
}

type Service struct {
	repo    EnderecoRepository
	estoque EstoqueLister
	config  ConfiguracaoProvider
	logger  logger.Logger
}

func NewService(repo EnderecoRepository, estoque EstoqueLister, config ConfiguracaoProvider, logger logger.Logger) *Service {
	return &Service{repo: repo, estoque: estoque, config: config, logger: logger}
}

// Listar devolve os endereços ordenados.
func (s *Service) Listar(ctx context.Context) ([]domain.Endereco, error) {
	return s.repo.Listar(ctx)
}

// ListarComProdutos devolve cada endereço com as linhas de estoque que ele guarda.
func (s *Service) ListarComProdutos(ctx context.Context) ([]domain.EnderecoComProdutos, error) {
	enderecos, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	estoque, err := s.estoque.ListarTodos(ctx)
	if err != nil {
		return nil, err
	}

	porEndereco := make(map[string][]domain.EstoqueEndereco, len(enderecos))
	for _, item := range estoque {
		porEndereco[item.CodEndereco] = append(porEndereco[item.CodEndereco], item)
	}

	out := make([]domain.EnderecoComProdutos, 0, len(enderecos))
	for _, e := range enderecos {
		produtos := porEndereco[e.CodEndereco]
		if produtos == nil {
			produtos = []domain.EstoqueEndereco{}
		}
		out = append(out, domain.EnderecoComProdutos{Endereco: e, Produtos: produtos})
	}
	return out, nil
}

// Criar valida e grava um novo endereço.
func (s *Service) Criar(ctx context.Context, in domain.EnderecoInput) (domain.Endereco, error) {
	in, err := s.validar(ctx, in)
	if err != nil {
		return domain.Endereco{}, err
	}

	created, err := s.repo.Inserir(ctx, in)
	if err != nil {
		return domain.Endereco{}, err
	}

	s.logger.Info("Endereço criado.", map[string]interface{}{"codendereco": created.CodEndereco})
	return created, nil
}

// Atualizar altera a localização física de um endereço existente.
func (s *Service) Atualizar(ctx context.Context, codEndereco string, in domain.EnderecoInput) (domain.Endereco, error) {
	codEndereco = strings.TrimSpace(codEndereco)
	if codEndereco == "" {
		return domain.Endereco{}, apperror.NewValidationError("Código do endereço é obrigatório.")
	}
	in, err := s.validar(ctx, in)
	if err != nil {
		return domain.Endereco{}, err
	}

	updated, err := s.repo.Atualizar(ctx, codEndereco, in)
	if err != nil {
		return domain.Endereco{}, err
	}

	s.logger.Info("Endereço atualizado.", map[string]interface{}{"codendereco": codEndereco})
	return updated, nil
}

// Remover apaga o endereço. Endereços com estoque são recusados com 400.
func (s *Service) Remover(ctx context.Context, codEndereco string) error {
	codEndereco = strings.TrimSpace(codEndereco)
	if codEndereco == "" {
		return apperror.NewValidationError("Código do endereço é obrigatório.")
	}
	if err := s.repo.Remover(ctx, codEndereco); err != nil {
		return err
	}
	s.logger.Info("Endereço removido.", map[string]interface{}{"codendereco": codEndereco})
	return nil
}

func (s *Service) validar(ctx context.Context, in domain.EnderecoInput) (domain.EnderecoInput, error) {
	in.CodEndereco = strings.TrimSpace(in.CodEndereco)
	in.Rua = strings.TrimSpace(in.Rua)
	in.Predio = strings.TrimSpace(in.Predio)
	in.Andar = trimOptional(in.Andar)
	in.Apto = trimOptional(in.Apto)

	if in.Rua == "" {
		return in, apperror.NewValidationError("Rua é obrigatória.")
	}
	if in.Predio == "" {
		return in, apperror.NewValidationError("Prédio é obrigatório.")
	}

	cfg, err := s.config.Obter(ctx)
	if err != nil {
		return in, err
	}
	if cfg.EnderecoQuatroNiveis {
		if in.Andar == nil {
			return in, apperror.NewValidationError("Andar é obrigatório.")
		}
		if in.Apto == nil {
			return in, apperror.NewValidationError("Apartamento é obrigatório.")
		}
	}
	return in, nil
}

// trimOptional normaliza campos opcionais: texto em branco vira NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
