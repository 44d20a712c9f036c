package configservice

import (
	"context"
	"regexp"
	"strings"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// ConfiguracaoRepository define o contrato de persistência da configuração.
type ConfiguracaoRepository interface {
	Obter(ctx context.Context) (domain.Configuracao, error)
	Salvar(ctx context.Context, c domain.Configuracao) (domain.Configuracao, error)
}

var corHex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Service struct {
	repo   ConfiguracaoRepository
	logger logger.Logger
}

func NewService(repo ConfiguracaoRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Obter(ctx context.Context) (domain.Configuracao, error) {
	return s.repo.Obter(ctx)
}

// Atualizar valida e grava a configuração inteira.
func (s *Service) Atualizar(ctx context.Context, c domain.Configuracao) (domain.Configuracao, error) {
	c.NomeEmpresa = strings.TrimSpace(c.NomeEmpresa)
	if c.NomeEmpresa == "" {
		return domain.Configuracao{}, apperror.NewValidationError("Nome da empresa é obrigatório.")
	}
	if c.IntervaloPainelMin < 1 {
		return domain.Configuracao{}, apperror.NewValidationError("Intervalo de atualização dos painéis deve ser de pelo menos 1 minuto.")
	}

	padrao := domain.ConfiguracaoPadrao()
	if c.CorPrimaria == "" {
		c.CorPrimaria = padrao.CorPrimaria
	}
	if c.CorSecundaria == "" {
		c.CorSecundaria = padrao.CorSecundaria
	}
	if !corHex.MatchString(c.CorPrimaria) || !corHex.MatchString(c.CorSecundaria) {
		return domain.Configuracao{}, apperror.NewValidationError("Cor inválida. Use o formato #RRGGBB.")
	}
	if c.LogoURL != nil && strings.TrimSpace(*c.LogoURL) == "" {
		c.LogoURL = nil
	}

	saved, err := s.repo.Salvar(ctx, c)
	if err != nil {
		return domain.Configuracao{}, err
	}
	s.logger.Info("Configurações atualizadas.", map[string]interface{}{
		"nome_empresa":           saved.NomeEmpresa,
		"endereco_quatro_niveis": saved.EnderecoQuatroNiveis,
		"intervalo_painel_min":   saved.IntervaloPainelMin,
	})
	return saved, nil
}
