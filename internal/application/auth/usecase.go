package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/fiecl/barcode-inventory-management/internal/application/dto"
	"github.com/fiecl/barcode-inventory-management/internal/domain"
	"github.com/fiecl/barcode-inventory-management/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminCredentials administrador único configurado por entorno (hash bcrypt).
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// AuthUseCase login del administrador.
type AuthUseCase struct {
	admin  AdminCredentials
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(admin AdminCredentials, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{admin: admin, jwtCfg: jwtCfg}
}

// Enabled indica si hay secreto y credenciales configuradas.
func (uc *AuthUseCase) Enabled() bool {
	return uc.jwtCfg.Secret != "" && uc.admin.Email != "" && uc.admin.PasswordHash != ""
}

// Login verifica email/password contra el hash configurado y genera el JWT.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !uc.Enabled() {
		return nil, domain.ErrUnauthorized
	}
	if !strings.EqualFold(strings.TrimSpace(in.Email), uc.admin.Email) {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.admin.Email, jwt.RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		Email:     uc.admin.Email,
		Role:      jwt.RoleAdmin,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}
