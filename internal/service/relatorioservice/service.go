package relatorioservice

import (
	"context"
	"strings"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// RelatorioRepository define as consultas agregadas.
type RelatorioRepository interface {
	Resumo(ctx context.Context) (domain.ResumoDashboard, error)
	Enderecos(ctx context.Context, rua string) ([]domain.LinhaRelatorioEndereco, error)
}

// ConfiguracaoProvider fornece o nome e as cores usados no cabeçalho do PDF.
type ConfiguracaoProvider interface {
	Obter(ctx context.Context) (domain.Configuracao, error)
}

// PDFGenerator desenha o relatório de endereços.
type PDFGenerator interface {
	Gerar(cfg domain.Configuracao, filtroRua string, linhas []domain.LinhaRelatorioEndereco) ([]byte, error)
}

type Service struct {
	repo   RelatorioRepository
	config ConfiguracaoProvider
	pdf    PDFGenerator
	logger logger.Logger
}

func NewService(repo RelatorioRepository, config ConfiguracaoProvider, pdf PDFGenerator, logger logger.Logger) *Service {
	return &Service{repo: repo, config: config, pdf: pdf, logger: logger}
}

func (s *Service) Resumo(ctx context.Context) (domain.ResumoDashboard, error) {
	return s.repo.Resumo(ctx)
}

func (s *Service) Enderecos(ctx context.Context, rua string) ([]domain.LinhaRelatorioEndereco, error) {
	return s.repo.Enderecos(ctx, strings.TrimSpace(rua))
}

// EnderecosPDF gera o mesmo relatório de Enderecos em PDF.
func (s *Service) EnderecosPDF(ctx context.Context, rua string) ([]byte, error) {
	rua = strings.TrimSpace(rua)
	linhas, err := s.repo.Enderecos(ctx, rua)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config.Obter(ctx)
	if err != nil {
		return nil, err
	}

	pdf, err := s.pdf.Gerar(cfg, rua, linhas)
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao gerar PDF do relatório de endereços", err)
	}
	s.logger.Debug("Relatório de endereços gerado.", map[string]interface{}{"rua": rua, "linhas": len(linhas), "bytes": len(pdf)})
	return pdf, nil
}
