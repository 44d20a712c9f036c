package acessoservice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/password"
)

// AcessoRepository define o contrato para níveis, módulos e permissões.
type AcessoRepository interface {
	ListarNiveis(ctx context.Context) ([]domain.NivelAcesso, error)
	InserirNivel(ctx context.Context, nome string) (domain.NivelAcesso, error)
	AtualizarNivel(ctx context.Context, id int64, nome string) (domain.NivelAcesso, error)
	RemoverNivel(ctx context.Context, id int64) error
	ListarModulos(ctx context.Context) ([]domain.Modulo, error)
	ListarPermissoes(ctx context.Context, nivelAcessoID int64) ([]domain.Permissao, error)
	SubstituirPermissoes(ctx context.Context, nivelAcessoID int64, permissoes []domain.Permissao) error
}

// UsuarioRepository define o contrato de manutenção de usuários.
type UsuarioRepository interface {
	Listar(ctx context.Context) ([]domain.Usuario, error)
	Inserir(ctx context.Context, u domain.Usuario) (domain.Usuario, error)
	Atualizar(ctx context.Context, u domain.Usuario) (domain.Usuario, error)
	AtualizarSenha(ctx context.Context, codUsuario int64, senhaHash string) error
	BuscarPorID(ctx context.Context, codUsuario int64) (domain.Usuario, error)
}

// Service mantém o controle de acesso e responde às checagens de permissão das rotas.
// O mapa de permissões de cada nível fica no cache por ttl e é invalidado nas alterações.
type Service struct {
	acesso         AcessoRepository
	usuarios       UsuarioRepository
	cache          cache.Client
	ttl            time.Duration
	passwordScheme string
	logger         logger.Logger
}

func NewService(acesso AcessoRepository, usuarios UsuarioRepository, cacheClient cache.Client, ttl time.Duration, passwordScheme string, logger logger.Logger) *Service {
	return &Service{
		acesso:         acesso,
		usuarios:       usuarios,
		cache:          cacheClient,
		ttl:            ttl,
		passwordScheme: passwordScheme,
		logger:         logger,
	}
}

func cacheKey(nivelAcessoID int64) string {
	return "permissoes:" + strconv.FormatInt(nivelAcessoID, 10)
}

func situacaoKey(codUsuario int64) string {
	return "usuario:" + strconv.FormatInt(codUsuario, 10)
}

// Autoriza confere o usuário do token contra o cadastro atual (nível e situação) e então
// as permissões do nível. Usuário inativo ou removido recebe 401.
func (s *Service) Autoriza(ctx context.Context, codUsuario int64, chave domain.ModuloChave, acao domain.Acao) (bool, error) {
	situacao, err := s.situacaoUsuario(ctx, codUsuario)
	if err != nil {
		return false, err
	}
	if !situacao.Ativo {
		return false, apperror.NewUnauthorizedError("Usuário inativo ou inexistente.")
	}
	return s.Permite(ctx, situacao.NivelAcessoID, chave, acao)
}

func (s *Service) situacaoUsuario(ctx context.Context, codUsuario int64) (domain.SituacaoUsuario, error) {
	key := situacaoKey(codUsuario)

	var situacao domain.SituacaoUsuario
	err := cache.GetJSON(ctx, s.cache, key, &situacao)
	if err == nil {
		return situacao, nil
	}
	if !cache.IsMiss(err) {
		s.logger.Warn("Falha ao ler situação do usuário no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	u, err := s.usuarios.BuscarPorID(ctx, codUsuario)
	if apperror.IsNotFound(err) {
		return domain.SituacaoUsuario{}, apperror.NewUnauthorizedError("Usuário inativo ou inexistente.")
	}
	if err != nil {
		return domain.SituacaoUsuario{}, err
	}
	situacao = domain.SituacaoUsuario{NivelAcessoID: u.NivelAcessoID, Ativo: u.Ativo}

	if err := cache.SetJSON(ctx, s.cache, key, situacao, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar situação do usuário no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return situacao, nil
}

// Permite informa se o nível tem a ação sobre o módulo. A chave é comparada exatamente.
func (s *Service) Permite(ctx context.Context, nivelAcessoID int64, chave domain.ModuloChave, acao domain.Acao) (bool, error) {
	mapa, err := s.mapaPermissoes(ctx, nivelAcessoID)
	if err != nil {
		return false, err
	}
	return mapa.Permite(chave, acao), nil
}

func (s *Service) mapaPermissoes(ctx context.Context, nivelAcessoID int64) (domain.MapaPermissoes, error) {
	key := cacheKey(nivelAcessoID)

	var mapa domain.MapaPermissoes
	err := cache.GetJSON(ctx, s.cache, key, &mapa)
	if err == nil {
		return mapa, nil
	}
	if !cache.IsMiss(err) {
		s.logger.Warn("Falha ao ler permissões do cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	lista, err := s.acesso.ListarPermissoes(ctx, nivelAcessoID)
	if err != nil {
		return nil, err
	}
	mapa = domain.NovoMapaPermissoes(lista)

	if err := cache.SetJSON(ctx, s.cache, key, mapa, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar permissões no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return mapa, nil
}

func (s *Service) invalidar(ctx context.Context, nivelAcessoID int64) {
	if err := s.cache.Delete(ctx, cacheKey(nivelAcessoID)); err != nil {
		s.logger.Warn("Falha ao invalidar permissões no cache.", map[string]interface{}{"nivel_acesso_id": nivelAcessoID, "error": err.Error()})
	}
}

func (s *Service) invalidarUsuario(ctx context.Context, codUsuario int64) {
	if err := s.cache.Delete(ctx, situacaoKey(codUsuario)); err != nil {
		s.logger.Warn("Falha ao invalidar situação do usuário no cache.", map[string]interface{}{"codusuario": codUsuario, "error": err.Error()})
	}
}

// --- Níveis e módulos ---

func (s *Service) ListarNiveis(ctx context.Context) ([]domain.NivelAcesso, error) {
	return s.acesso.ListarNiveis(ctx)
}

func (s *Service) CriarNivel(ctx context.Context, nome string) (domain.NivelAcesso, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return domain.NivelAcesso{}, apperror.NewValidationError("Nome do nível é obrigatório.")
	}
	return s.acesso.InserirNivel(ctx, nome)
}

func (s *Service) AtualizarNivel(ctx context.Context, id int64, nome string) (domain.NivelAcesso, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return domain.NivelAcesso{}, apperror.NewValidationError("Nome do nível é obrigatório.")
	}
	return s.acesso.AtualizarNivel(ctx, id, nome)
}

func (s *Service) RemoverNivel(ctx context.Context, id int64) error {
	if err := s.acesso.RemoverNivel(ctx, id); err != nil {
		return err
	}
	s.invalidar(ctx, id)
	s.logger.Info("Nível de acesso removido.", map[string]interface{}{"nivel_acesso_id": id})
	return nil
}

func (s *Service) ListarModulos(ctx context.Context) ([]domain.Modulo, error) {
	return s.acesso.ListarModulos(ctx)
}

func (s *Service) ListarPermissoes(ctx context.Context, nivelAcessoID int64) ([]domain.Permissao, error) {
	return s.acesso.ListarPermissoes(ctx, nivelAcessoID)
}

// SalvarPermissoes substitui o conjunto de permissões do nível. Chaves desconhecidas ou
// repetidas são recusadas antes de tocar no banco.
func (s *Service) SalvarPermissoes(ctx context.Context, nivelAcessoID int64, permissoes []domain.Permissao) ([]domain.Permissao, error) {
	vistas := make(map[domain.ModuloChave]bool, len(permissoes))
	for _, p := range permissoes {
		if !p.Chave.Valida() {
			return nil, apperror.NewValidationError(fmt.Sprintf("Módulo %q desconhecido.", p.Chave))
		}
		if vistas[p.Chave] {
			return nil, apperror.NewValidationError(fmt.Sprintf("Módulo %q repetido.", p.Chave))
		}
		vistas[p.Chave] = true
	}

	if err := s.acesso.SubstituirPermissoes(ctx, nivelAcessoID, permissoes); err != nil {
		return nil, err
	}
	s.invalidar(ctx, nivelAcessoID)

	s.logger.Info("Permissões atualizadas.", map[string]interface{}{"nivel_acesso_id": nivelAcessoID, "modulos": len(permissoes)})
	return s.acesso.ListarPermissoes(ctx, nivelAcessoID)
}

// --- Usuários ---

func (s *Service) ListarUsuarios(ctx context.Context) ([]domain.Usuario, error) {
	return s.usuarios.Listar(ctx)
}

// CriarUsuario grava o login em maiúsculas e a senha no esquema configurado.
func (s *Service) CriarUsuario(ctx context.Context, in domain.UsuarioInput) (domain.Usuario, error) {
	u, err := validarUsuario(in)
	if err != nil {
		return domain.Usuario{}, err
	}
	if in.Senha == "" {
		return domain.Usuario{}, apperror.NewValidationError("Senha é obrigatória.")
	}

	hash, err := password.Hash(s.passwordScheme, u.Login, in.Senha)
	if err != nil {
		return domain.Usuario{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	u.SenhaHash = hash

	created, err := s.usuarios.Inserir(ctx, u)
	if err != nil {
		return domain.Usuario{}, err
	}
	s.logger.Info("Usuário criado.", map[string]interface{}{"login": created.Login, "codusuario": created.CodUsuario})
	return created, nil
}

// AtualizarUsuario altera os dados cadastrais e, quando informada, a senha no mesmo UPDATE.
// No esquema legado o hash depende do login, por isso trocar o login exige nova senha.
func (s *Service) AtualizarUsuario(ctx context.Context, codUsuario int64, in domain.UsuarioInput) (domain.Usuario, error) {
	u, err := validarUsuario(in)
	if err != nil {
		return domain.Usuario{}, err
	}
	u.CodUsuario = codUsuario

	atual, err := s.usuarios.BuscarPorID(ctx, codUsuario)
	if err != nil {
		return domain.Usuario{}, err
	}
	if atual.Login != u.Login && !strings.HasPrefix(atual.SenhaHash, "$2") && in.Senha == "" {
		return domain.Usuario{}, apperror.NewValidationError("Ao alterar o login informe também a nova senha.")
	}

	if in.Senha != "" {
		hash, err := password.Hash(s.passwordScheme, u.Login, in.Senha)
		if err != nil {
			return domain.Usuario{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
		}
		u.SenhaHash = hash
	}

	updated, err := s.usuarios.Atualizar(ctx, u)
	if err != nil {
		return domain.Usuario{}, err
	}
	s.invalidarUsuario(ctx, codUsuario)
	return updated, nil
}

// AlterarSenha grava a nova senha do usuário.
func (s *Service) AlterarSenha(ctx context.Context, codUsuario int64, login, senha string) error {
	if senha == "" {
		return apperror.NewValidationError("Senha é obrigatória.")
	}
	if login == "" {
		u, err := s.usuarios.BuscarPorID(ctx, codUsuario)
		if err != nil {
			return err
		}
		login = u.Login
	}

	hash, err := password.Hash(s.passwordScheme, login, senha)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	return s.usuarios.AtualizarSenha(ctx, codUsuario, hash)
}

func validarUsuario(in domain.UsuarioInput) (domain.Usuario, error) {
	u := domain.Usuario{
		Login:         password.NormalizeLogin(in.Login),
		Nome:          strings.TrimSpace(in.Nome),
		NivelAcessoID: in.NivelAcessoID,
		Ativo:         true,
	}
	if in.Ativo != nil {
		u.Ativo = *in.Ativo
	}
	if u.Login == "" {
		return u, apperror.NewValidationError("Login é obrigatório.")
	}
	if u.Nome == "" {
		return u, apperror.NewValidationError("Nome é obrigatório.")
	}
	if u.NivelAcessoID <= 0 {
		return u, apperror.NewValidationError("Nível de acesso é obrigatório.")
	}
	return u, nil
}
