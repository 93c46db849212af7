package list_providers

import (
	"context"

	listProviders "github.com/m04kA/SMC-AppointmentService/internal/usecase/list_providers"
)

type ListProvidersUseCase interface {
	Execute(ctx context.Context, req *listProviders.Request) (*listProviders.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
