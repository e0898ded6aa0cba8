package app

import (
	"fmt"
	"time"

	"github.com/haierkeys/team-notes-service/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "team-notes-identity"

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        `yaml:"secret-key"` // JWT 签名密钥（与身份提供方共享）
	Expiry    time.Duration `yaml:"expiry"`     // Token 过期时间，默认 1 小时
	Issuer    string        `yaml:"issuer"`     // Token 签发者
	// SaltWithMachineID 是否用机器 ID 加盐密钥
	// 与外部身份提供方共享密钥时必须关闭
	SaltWithMachineID bool `yaml:"salt-with-machine-id"`
}

// IdentityClaims 会话 Token 携带的身份上下文
// 服务完全信任该三元组，不做独立的凭证校验
type IdentityClaims struct {
	MemberID       string   `json:"memberId"`
	OrganizationID string   `json:"organizationId"`
	Roles          []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(memberID, organizationID string, roles []string) (string, error)
	Parse(token string) (*IdentityClaims, error)
	Validate(token string) error
	GetSecretKey() string
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	// 设置默认值
	if cfg.Expiry == 0 {
		cfg.Expiry = time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

func (t *tokenManager) signingKey() []byte {
	if t.config.SaltWithMachineID {
		return []byte(t.config.SecretKey + "_" + util.GetMachineID())
	}
	return []byte(t.config.SecretKey)
}

// Generate 生成一个新的会话 Token
// 生产环境由外部身份提供方签发，这里用于开发与测试
func (t *tokenManager) Generate(memberID, organizationID string, roles []string) (string, error) {
	now := time.Now()
	claims := &IdentityClaims{
		MemberID:       memberID,
		OrganizationID: organizationID,
		Roles:          roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   memberID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey())
}

// Parse 解析会话 Token 并返回身份上下文
func (t *tokenManager) Parse(token string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}

	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey(), nil
	})

	if err != nil {
		return nil, err
	}

	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// Validate 验证 Token 是否有效
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// GetSecretKey 获取密钥
func (t *tokenManager) GetSecretKey() string {
	return t.config.SecretKey
}

// identityContextKey 存储身份上下文的 gin.Context 键
const identityContextKey = "identity_token"

// SetIdentityClaims 将解析后的身份上下文写入请求上下文
func SetIdentityClaims(ctx *gin.Context, claims *IdentityClaims) {
	ctx.Set(identityContextKey, claims)
}

// GetIdentityClaims 从请求上下文提取身份上下文
func GetIdentityClaims(ctx *gin.Context) *IdentityClaims {
	v, exist := ctx.Get(identityContextKey)
	if !exist {
		return nil
	}
	claims, ok := v.(*IdentityClaims)
	if !ok {
		return nil
	}
	return claims
}
