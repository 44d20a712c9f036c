package authservice

import (
	"context"
	"strings"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/password"
)

// MsgCredenciaisInvalidas é a única mensagem de falha de login: não revela se o
// usuário existe.
const MsgCredenciaisInvalidas = "Usuário ou senha inválidos."

// UsuarioRepository define o contrato que o Serviço de Autenticação espera da camada de Persistência.
type UsuarioRepository interface {
	BuscarPorLogin(ctx context.Context, login string) (domain.Usuario, error)
	BuscarPorID(ctx context.Context, codUsuario int64) (domain.Usuario, error)
}

// PermissaoLister devolve as permissões de um nível de acesso.
type PermissaoLister interface {
	ListarPermissoes(ctx context.Context, nivelAcessoID int64) ([]domain.Permissao, error)
}

// ConfiguracaoProvider fornece a identidade visual devolvida na verificação da sessão.
type ConfiguracaoProvider interface {
	Obter(ctx context.Context) (domain.Configuracao, error)
}

// TokenGenerator define o contrato para geração de tokens JWT.
type TokenGenerator interface {
	GenerateToken(codUsuario int64, login string, nivelAcessoID int64) (string, error)
}

// Service implementa o login e a verificação da sessão.
type Service struct {
	usuarios   UsuarioRepository
	permissoes PermissaoLister
	config     ConfiguracaoProvider
	tokens     TokenGenerator
	logger     logger.Logger
}

func NewService(usuarios UsuarioRepository, permissoes PermissaoLister, config ConfiguracaoProvider, tokens TokenGenerator, logger logger.Logger) *Service {
	return &Service{usuarios: usuarios, permissoes: permissoes, config: config, tokens: tokens, logger: logger}
}

// Login confere login e senha e devolve a sessão com o token.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.Sessao, error) {
	if strings.TrimSpace(req.Login) == "" || req.Senha == "" {
		return domain.Sessao{}, apperror.NewValidationError("Login e senha são obrigatórios.")
	}

	login := password.NormalizeLogin(req.Login)

	usuario, err := s.usuarios.BuscarPorLogin(ctx, login)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.logger.Info("Login recusado: usuário inexistente.", map[string]interface{}{"login": login})
			return domain.Sessao{}, apperror.NewUnauthorizedError(MsgCredenciaisInvalidas)
		}
		return domain.Sessao{}, err
	}

	if !password.Verify(usuario.SenhaHash, login, req.Senha) {
		s.logger.Info("Login recusado: senha incorreta.", map[string]interface{}{"login": login})
		return domain.Sessao{}, apperror.NewUnauthorizedError(MsgCredenciaisInvalidas)
	}
	if !usuario.Ativo {
		s.logger.Info("Login recusado: usuário inativo.", map[string]interface{}{"login": login})
		return domain.Sessao{}, apperror.NewUnauthorizedError(MsgCredenciaisInvalidas)
	}

	permissoes, err := s.permissoes.ListarPermissoes(ctx, usuario.NivelAcessoID)
	if err != nil {
		return domain.Sessao{}, err
	}

	tk, err := s.tokens.GenerateToken(usuario.CodUsuario, usuario.Login, usuario.NivelAcessoID)
	if err != nil {
		return domain.Sessao{}, apperror.NewInternalError("Falha ao gerar token.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"login": login, "codusuario": usuario.CodUsuario})
	return domain.Sessao{
		Sucesso:    true,
		Token:      tk,
		Usuario:    usuario,
		Permissoes: permissoes,
	}, nil
}

// Verificar recarrega a sessão de um token válido: usuário, permissões e configuração.
// Usuário removido ou desativado depois da emissão do token recebe 401.
func (s *Service) Verificar(ctx context.Context, codUsuario int64) (domain.Sessao, error) {
	usuario, err := s.usuarios.BuscarPorID(ctx, codUsuario)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.Sessao{}, apperror.NewUnauthorizedError("Token inválido ou expirado.")
		}
		return domain.Sessao{}, err
	}
	if !usuario.Ativo {
		return domain.Sessao{}, apperror.NewUnauthorizedError("Token inválido ou expirado.")
	}

	permissoes, err := s.permissoes.ListarPermissoes(ctx, usuario.NivelAcessoID)
	if err != nil {
		return domain.Sessao{}, err
	}

	cfg, err := s.config.Obter(ctx)
	if err != nil {
		return domain.Sessao{}, err
	}

	return domain.Sessao{
		Valido:       true,
		Usuario:      usuario,
		Permissoes:   permissoes,
		Configuracao: &cfg,
	}, nil
}
