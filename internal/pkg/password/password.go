// Package password trata o hash das senhas de usuário.
//
// O esquema legado é hex(MD5(LOGIN + senha)), com o login já em maiúsculas. Hashes
// bcrypt (prefixo "$2") são aceitos na verificação, o que permite migrar usuários aos poucos.
package password

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	SchemeMD5    = "md5"
	SchemeBcrypt = "bcrypt"
)

// NormalizeLogin remove espaços das bordas e converte para maiúsculas com mapeamento
// Unicode completo ("straße" vira "STRASSE").
func NormalizeLogin(login string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(login))
}

// LegacyHash devolve hex(MD5(loginUpper + senha)).
func LegacyHash(loginUpper, senha string) string {
	sum := md5.Sum([]byte(loginUpper + senha))
	return hex.EncodeToString(sum[:])
}

// Hash gera o hash de uma nova senha no esquema configurado.
func Hash(scheme, loginUpper, senha string) (string, error) {
	switch scheme {
	case SchemeBcrypt:
		b, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("falha ao gerar hash bcrypt: %w", err)
		}
		return string(b), nil
	case SchemeMD5, "":
		return LegacyHash(loginUpper, senha), nil
	default:
		return "", fmt.Errorf("esquema de senha desconhecido: %q", scheme)
	}
}

// Verify compara a senha informada com o hash armazenado.
func Verify(stored, loginUpper, senha string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(senha)) == nil
	}
	computed := LegacyHash(loginUpper, senha)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(computed)) == 1
}
