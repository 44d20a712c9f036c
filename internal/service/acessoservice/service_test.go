package acessoservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/password"
	"gowms/internal/service/acessoservice"
)

type MockAcessoRepository struct {
	mock.Mock
}

func (m *MockAcessoRepository) ListarNiveis(ctx context.Context) ([]domain.NivelAcesso, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.NivelAcesso), args.Error(1)
}

func (m *MockAcessoRepository) InserirNivel(ctx context.Context, nome string) (domain.NivelAcesso, error) {
	args := m.Called(ctx, nome)
	return args.Get(0).(domain.NivelAcesso), args.Error(1)
}

func (m *MockAcessoRepository) AtualizarNivel(ctx context.Context, id int64, nome string) (domain.NivelAcesso, error) {
	args := m.Called(ctx, id, nome)
	return args.Get(0).(domain.NivelAcesso), args.Error(1)
}

func (m *MockAcessoRepository) RemoverNivel(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAcessoRepository) ListarModulos(ctx context.Context) ([]domain.Modulo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Modulo), args.Error(1)
}

func (m *MockAcessoRepository) ListarPermissoes(ctx context.Context, nivelAcessoID int64) ([]domain.Permissao, error) {
	args := m.Called(ctx, nivelAcessoID)
	return args.Get(0).([]domain.Permissao), args.Error(1)
}

func (m *MockAcessoRepository) SubstituirPermissoes(ctx context.Context, nivelAcessoID int64, permissoes []domain.Permissao) error {
	return m.Called(ctx, nivelAcessoID, permissoes).Error(0)
}

type MockUsuarioRepository struct {
	mock.Mock
}

func (m *MockUsuarioRepository) Listar(ctx context.Context) ([]domain.Usuario, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) Inserir(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) Atualizar(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) AtualizarSenha(ctx context.Context, codUsuario int64, senhaHash string) error {
	return m.Called(ctx, codUsuario, senhaHash).Error(0)
}

func (m *MockUsuarioRepository) BuscarPorID(ctx context.Context, codUsuario int64) (domain.Usuario, error) {
	args := m.Called(ctx, codUsuario)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

// memCache guarda os valores em memória e conta as remoções.
type memCache struct {
	data    map[string]string
	deletes int
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deletes++
	}
	return nil
}

func (c *memCache) Incr(context.Context, string, time.Duration) (int64, error) { return 0, nil }

func newService(scheme string) (*acessoservice.Service, *MockAcessoRepository, *MockUsuarioRepository, *memCache) {
	acesso := new(MockAcessoRepository)
	usuarios := new(MockUsuarioRepository)
	mc := newMemCache()
	svc := acessoservice.NewService(acesso, usuarios, mc, time.Minute, scheme, logger.NewNopLogger())
	return svc, acesso, usuarios, mc
}

var permissoesOperador = []domain.Permissao{
	{NivelAcessoID: 2, Chave: domain.ModuloEnderecos, Visualizar: true, Incluir: true},
	{NivelAcessoID: 2, Chave: domain.ModuloProdutos, Visualizar: true},
}

func TestPermite_UsesCacheAfterFirstLookup(t *testing.T) {
	svc, acesso, _, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	acesso.On("ListarPermissoes", ctx, int64(2)).Return(permissoesOperador, nil).Once()

	ok, err := svc.Permite(ctx, 2, domain.ModuloEnderecos, domain.AcaoIncluir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Permite(ctx, 2, domain.ModuloProdutos, domain.AcaoExcluir)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Permite(ctx, 2, domain.ModuloConfiguracoes, domain.AcaoVisualizar)
	require.NoError(t, err)
	assert.False(t, ok, "módulo ausente nega acesso")

	acesso.AssertExpectations(t)
}

func TestPermite_RepositoryError(t *testing.T) {
	svc, acesso, _, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	acesso.On("ListarPermissoes", ctx, int64(9)).Return([]domain.Permissao(nil), apperror.NewDBError("x", errors.New("down")))

	ok, err := svc.Permite(ctx, 9, domain.ModuloEnderecos, domain.AcaoVisualizar)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSalvarPermissoes_InvalidatesCache(t *testing.T) {
	svc, acesso, _, mc := newService(password.SchemeMD5)
	ctx := context.Background()

	acesso.On("ListarPermissoes", ctx, int64(2)).Return(permissoesOperador, nil)
	_, err := svc.Permite(ctx, 2, domain.ModuloEnderecos, domain.AcaoVisualizar)
	require.NoError(t, err)
	require.Contains(t, mc.data, "permissoes:2")

	novas := []domain.Permissao{{Chave: domain.ModuloDashboard, Visualizar: true}}
	acesso.On("SubstituirPermissoes", ctx, int64(2), novas).Return(nil).Once()

	_, err = svc.SalvarPermissoes(ctx, 2, novas)
	require.NoError(t, err)
	assert.NotContains(t, mc.data, "permissoes:2")
	acesso.AssertExpectations(t)
}

func TestSalvarPermissoes_RejectsUnknownAndRepeatedKeys(t *testing.T) {
	svc, acesso, _, _ := newService(password.SchemeMD5)
	ctx := context.Background()

	_, err := svc.SalvarPermissoes(ctx, 2, []domain.Permissao{{Chave: "Produtos"}})
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = svc.SalvarPermissoes(ctx, 2, []domain.Permissao{{Chave: domain.ModuloProdutos}, {Chave: domain.ModuloProdutos}})
	assert.ErrorAs(t, err, &validation)

	acesso.AssertNotCalled(t, "SubstituirPermissoes", mock.Anything, mock.Anything, mock.Anything)
}

func TestCriarNivel_RequiresNome(t *testing.T) {
	svc, acesso, _, _ := newService(password.SchemeMD5)

	_, err := svc.CriarNivel(context.Background(), "   ")
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	acesso.AssertNotCalled(t, "InserirNivel", mock.Anything, mock.Anything)
}

func TestCriarUsuario_NormalizesLoginAndHashesPassword(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()

	esperado := domain.Usuario{
		Login:         "OPERADOR",
		Nome:          "Operador",
		SenhaHash:     password.LegacyHash("OPERADOR", "1234"),
		NivelAcessoID: 2,
		Ativo:         true,
	}
	created := esperado
	created.CodUsuario = 10
	usuarios.On("Inserir", ctx, esperado).Return(created, nil).Once()

	u, err := svc.CriarUsuario(ctx, domain.UsuarioInput{Login: " operador ", Nome: "Operador", Senha: "1234", NivelAcessoID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(10), u.CodUsuario)
	usuarios.AssertExpectations(t)
}

func TestCriarUsuario_BcryptScheme(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeBcrypt)
	ctx := context.Background()

	var gravado domain.Usuario
	usuarios.On("Inserir", ctx, mock.AnythingOfType("domain.Usuario")).
		Run(func(args mock.Arguments) { gravado = args.Get(1).(domain.Usuario) }).
		Return(domain.Usuario{CodUsuario: 11, Login: "MARIA"}, nil)

	_, err := svc.CriarUsuario(ctx, domain.UsuarioInput{Login: "maria", Nome: "Maria", Senha: "segredo", NivelAcessoID: 1})
	require.NoError(t, err)
	assert.True(t, password.Verify(gravado.SenhaHash, "MARIA", "segredo"))
	assert.Equal(t, "$2", gravado.SenhaHash[:2])
}

func TestCriarUsuario_Validation(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()

	casos := []domain.UsuarioInput{
		{Nome: "Sem login", Senha: "x", NivelAcessoID: 1},
		{Login: "a", Senha: "x", NivelAcessoID: 1},
		{Login: "a", Nome: "A", NivelAcessoID: 1},
		{Login: "a", Nome: "A", Senha: "x"},
	}
	for _, in := range casos {
		_, err := svc.CriarUsuario(ctx, in)
		var validation *apperror.ValidationError
		assert.ErrorAs(t, err, &validation, "%+v", in)
	}
	usuarios.AssertNotCalled(t, "Inserir", mock.Anything, mock.Anything)
}

func TestCriarUsuario_DuplicateLogin(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	usuarios.On("Inserir", ctx, mock.Anything).Return(domain.Usuario{}, apperror.NewDuplicateError("Login já cadastrado.", nil))

	_, err := svc.CriarUsuario(ctx, domain.UsuarioInput{Login: "admin", Nome: "Outro", Senha: "x", NivelAcessoID: 1})
	status, _, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Login já cadastrado.", msg)
}

func TestAtualizarUsuario_LoginChangeNeedsPasswordOnLegacyHash(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	usuarios.On("BuscarPorID", ctx, int64(7)).Return(domain.Usuario{
		CodUsuario: 7, Login: "OPERADOR", SenhaHash: password.LegacyHash("OPERADOR", "1234"),
	}, nil)

	_, err := svc.AtualizarUsuario(ctx, 7, domain.UsuarioInput{Login: "novo", Nome: "Novo", NivelAcessoID: 2})
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	usuarios.AssertNotCalled(t, "Atualizar", mock.Anything, mock.Anything)
}

func TestAtualizarUsuario_WithPassword(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	ativo := false
	usuarios.On("BuscarPorID", ctx, int64(7)).Return(domain.Usuario{CodUsuario: 7, Login: "OPERADOR"}, nil)
	usuarios.On("Atualizar", ctx, domain.Usuario{
		CodUsuario: 7, Login: "NOVO", Nome: "Novo", NivelAcessoID: 2, Ativo: false,
		SenhaHash: password.LegacyHash("NOVO", "nova"),
	}).Return(domain.Usuario{CodUsuario: 7, Login: "NOVO", Nome: "Novo", NivelAcessoID: 2}, nil).Once()

	u, err := svc.AtualizarUsuario(ctx, 7, domain.UsuarioInput{Login: "novo", Nome: "Novo", Senha: "nova", NivelAcessoID: 2, Ativo: &ativo})
	require.NoError(t, err)
	assert.Equal(t, "NOVO", u.Login)
	usuarios.AssertExpectations(t)
	usuarios.AssertNotCalled(t, "AtualizarSenha", mock.Anything, mock.Anything, mock.Anything)
}

func TestAtualizarUsuario_FailureLeavesPasswordUntouched(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	usuarios.On("BuscarPorID", ctx, int64(7)).Return(domain.Usuario{CodUsuario: 7, Login: "OPERADOR"}, nil)
	usuarios.On("Atualizar", ctx, mock.Anything).Return(domain.Usuario{}, apperror.NewDBError("Falha ao atualizar usuário", errors.New("conn reset")))

	_, err := svc.AtualizarUsuario(ctx, 7, domain.UsuarioInput{Login: "novo", Nome: "Novo", Senha: "nova", NivelAcessoID: 2})

	require.Error(t, err)
	usuarios.AssertNotCalled(t, "AtualizarSenha", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoriza_UsesCurrentUserRecord(t *testing.T) {
	svc, acesso, usuarios, mc := newService(password.SchemeMD5)
	ctx := context.Background()
	usuarios.On("BuscarPorID", ctx, int64(7)).Return(domain.Usuario{CodUsuario: 7, Login: "OPERADOR", NivelAcessoID: 2, Ativo: true}, nil).Once()
	acesso.On("ListarPermissoes", ctx, int64(2)).Return(permissoesOperador, nil).Once()

	ok, err := svc.Autoriza(ctx, 7, domain.ModuloEnderecos, domain.AcaoIncluir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Autoriza(ctx, 7, domain.ModuloProdutos, domain.AcaoIncluir)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, mc.data, "usuario:7")

	usuarios.On("BuscarPorID", ctx, int64(7)).Return(domain.Usuario{CodUsuario: 7, Login: "OPERADOR", NivelAcessoID: 2, Ativo: true}, nil).Once()
	usuarios.On("Atualizar", ctx, mock.Anything).Return(domain.Usuario{CodUsuario: 7, Login: "OPERADOR", Ativo: false}, nil).Once()
	inativo := false
	_, err = svc.AtualizarUsuario(ctx, 7, domain.UsuarioInput{Login: "operador", Nome: "Operador", NivelAcessoID: 2, Ativo: &inativo})
	require.NoError(t, err)
	assert.NotContains(t, mc.data, "usuario:7", "situação invalidada na alteração")

	usuarios.On("BuscarPorID", ctx, int64(7)).Return(domain.Usuario{CodUsuario: 7, Login: "OPERADOR", NivelAcessoID: 2, Ativo: false}, nil).Once()
	_, err = svc.Autoriza(ctx, 7, domain.ModuloEnderecos, domain.AcaoVisualizar)
	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 401, status)
	usuarios.AssertExpectations(t)
}

func TestAutoriza_UnknownUser(t *testing.T) {
	svc, acesso, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	usuarios.On("BuscarPorID", ctx, int64(99)).Return(domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, err := svc.Autoriza(ctx, 99, domain.ModuloEnderecos, domain.AcaoVisualizar)

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 401, status)
	acesso.AssertNotCalled(t, "ListarPermissoes", mock.Anything, mock.Anything)
}

func TestAlterarSenha_LooksUpLogin(t *testing.T) {
	svc, _, usuarios, _ := newService(password.SchemeMD5)
	ctx := context.Background()
	usuarios.On("BuscarPorID", ctx, int64(3)).Return(domain.Usuario{CodUsuario: 3, Login: "JOAO"}, nil)
	usuarios.On("AtualizarSenha", ctx, int64(3), password.LegacyHash("JOAO", "abc")).Return(nil).Once()

	require.NoError(t, svc.AlterarSenha(ctx, 3, "", "abc"))

	err := svc.AlterarSenha(ctx, 3, "", "")
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	usuarios.AssertExpectations(t)
}
