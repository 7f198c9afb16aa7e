package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-soat/internal/application/dto"
	"github.com/jhoicas/auditoria-soat/internal/domain/entity"
	"github.com/jhoicas/auditoria-soat/pkg/jwt"
)

// Locals keys para la identidad del llamador en Fiber.
const (
	LocalUserID             = "user_id"
	LocalRole               = "role"
	LocalCodigoHabilitacion = "codigo_habilitacion"
	LocalNombre             = "nombre"
)

// AuthMiddleware valida el Bearer Token JWT y carga la identidad del llamador en c.Locals.
// Un token sin claim de rol se rechaza con 401 MISSING_ROLE.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, strings.ToUpper(claims.Role))
		c.Locals(LocalCodigoHabilitacion, claims.CodigoHabilitacion)
		c.Locals(LocalNombre, claims.Nombre)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados (comparación sin distinguir mayúsculas).
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rol no encontrado en el token"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol " + role + " no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRole devuelve el rol en mayúsculas.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetIdentity arma la identidad que consumen los casos de uso.
func GetIdentity(c *fiber.Ctx) entity.Identity {
	return entity.Identity{
		UserID:             GetUserID(c),
		Role:               GetRole(c),
		CodigoHabilitacion: localString(c, LocalCodigoHabilitacion),
		Nombre:             localString(c, LocalNombre),
	}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
