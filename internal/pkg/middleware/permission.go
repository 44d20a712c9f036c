package middleware

import (
	"context"
	"net/http"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// PermissionChecker resolve o nível atual do usuário e consulta as flags de permissão.
// Deve devolver UnauthorizedError quando o usuário estiver inativo ou não existir mais.
type PermissionChecker interface {
	Autoriza(ctx context.Context, codUsuario int64, chave domain.ModuloChave, acao domain.Acao) (bool, error)
}

// AcaoDoMetodo mapeia o verbo HTTP para a ação de permissão.
func AcaoDoMetodo(method string) domain.Acao {
	switch method {
	case http.MethodPost:
		return domain.AcaoIncluir
	case http.MethodPut, http.MethodPatch:
		return domain.AcaoEditar
	case http.MethodDelete:
		return domain.AcaoExcluir
	default:
		return domain.AcaoVisualizar
	}
}

// RequirePermission exige que o nível atual do usuário autenticado tenha a ação sobre o módulo.
// O nível vem do cadastro, não do token.
// Deve rodar depois do NewAuthMiddleware.
func RequirePermission(checker PermissionChecker, log logger.Logger, chave domain.ModuloChave, acao domain.Acao) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, log, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			allowed, err := checker.Autoriza(r.Context(), claims.CodUsuario, chave, acao)
			if err != nil {
				response.Error(w, r, log, err)
				return
			}
			if !allowed {
				log.Info("Acesso negado.", map[string]interface{}{
					"login":  claims.Login,
					"modulo": string(chave),
					"acao":   string(acao),
				})
				response.Error(w, r, log, apperror.NewForbiddenError("Acesso negado. Você não tem a permissão necessária."))
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
