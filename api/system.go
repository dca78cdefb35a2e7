package api

import (
	"context"

	"github.com/yutingli1123/plumasphere-go/siteconfig"
	"github.com/yutingli1123/plumasphere-go/transport"
)

var _ siteconfig.SystemClient = (*SystemAPI)(nil)

// SystemAPI wraps the system status, initialization, and settings endpoints.
type SystemAPI struct {
	client *transport.Client
}

func NewSystemAPI(client *transport.Client) *SystemAPI {
	return &SystemAPI{client: client}
}

// GetStatus fetches the full site configuration.
func (s *SystemAPI) GetStatus(ctx context.Context) ([]siteconfig.Entry, error) {
	var entries []siteconfig.Entry
	if err := s.client.Get(ctx, Path(EndpointSystemStatus, nil), nil, false, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetStatusVersion fetches the server's current configuration version tag.
func (s *SystemAPI) GetStatusVersion(ctx context.Context) (string, error) {
	var version string
	if err := s.client.Get(ctx, Path(EndpointSystemStatusVersion, nil), nil, false, &version); err != nil {
		return "", err
	}
	return version, nil
}

// InitSystem performs first-run setup.
func (s *SystemAPI) InitSystem(ctx context.Context, params InitSystemParams) error {
	return s.client.Post(ctx, Path(EndpointSystemInit, nil), params, false, nil)
}

// VerifyInitCode checks a setup verification code.
func (s *SystemAPI) VerifyInitCode(ctx context.Context, code string) (bool, error) {
	var ok bool
	if err := s.client.Post(ctx, Path(EndpointSystemInitVerify, nil), wrappedValue{Value: code}, false, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// UpdateSettings submits changed site settings. Requires authentication.
func (s *SystemAPI) UpdateSettings(ctx context.Context, settings []siteconfig.Entry) error {
	return s.client.Post(ctx, Path(EndpointSystemSettings, nil), settings, true, nil)
}
