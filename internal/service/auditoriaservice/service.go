package auditoriaservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

// AuditoriaRepository define o contrato que o Serviço de Auditoria espera da camada de Persistência.
type AuditoriaRepository interface {
	Inserir(ctx context.Context, a domain.AuditoriaEndereco) error
}

// Service grava a trilha de auditoria em modo best-effort: roda depois do commit da
// alteração de estoque, fora da transação, e nunca devolve erro ao chamador.
type Service struct {
	repo    AuditoriaRepository
	logger  logger.Logger
	timeout time.Duration
}

func NewService(repo AuditoriaRepository, logger logger.Logger, timeout time.Duration) *Service {
	return &Service{repo: repo, logger: logger, timeout: timeout}
}

// Registrar grava a variação delta (nova - anterior) da chave. Delta zero não gera registro.
// O contexto é desligado do cancelamento da requisição: o cliente pode desconectar
// depois do commit e a auditoria ainda deve ser tentada.
func (s *Service) Registrar(ctx context.Context, chave domain.ChaveEstoque, delta decimal.Decimal, usuario string) {
	registro, ok := domain.NovaAuditoria(chave, delta, usuario)
	if !ok {
		return
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.repo.Inserir(auditCtx, registro); err != nil {
		s.logger.Error("Falha ao gravar auditoria de endereço (ignorada).", err)
		return
	}

	s.logger.Debug("Auditoria de endereço gravada.", map[string]interface{}{
		"codproduto":  registro.CodProduto,
		"codendereco": registro.CodEndereco,
		"lote":        registro.Lote,
		"tipo":        string(registro.Tipo),
		"quantidade":  registro.Quantidade.String(),
	})
}
