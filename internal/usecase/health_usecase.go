package usecase

import "context"

// ReadinessProbe reports the state of one dependency.
type ReadinessProbe func(ctx context.Context) string

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	probes map[string]ReadinessProbe
}

// NewHealthUsecase builds a health check reporting each named probe
// alongside the overall status.
func NewHealthUsecase(probes map[string]ReadinessProbe) HealthUsecase {
	return &healthUsecase{probes: probes}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
	}
	for name, probe := range u.probes {
		status[name] = probe(ctx)
	}
	return status
}
