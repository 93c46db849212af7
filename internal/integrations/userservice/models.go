package userservice

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// User профиль пользователя из UserService
type User struct {
	ID             int64       `json:"id"`
	Username       string      `json:"username"`
	Avatar         *string     `json:"avatar,omitempty"`
	Role           domain.Role `json:"role"`
	ClinicLocation *string     `json:"clinicLocation,omitempty"`
}

// IsDoctor проверяет, что пользователь врач
func (u *User) IsDoctor() bool {
	return u.Role == domain.RoleDoctor
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
