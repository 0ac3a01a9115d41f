package keystore

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/cmstar/go-errx"
	"github.com/cmstar/go-logx"
	"golang.org/x/sync/singleflight"

	"github.com/vitalvas/reqsign/httpsig"
)

var (
	// ErrNoClient is returned when SSMConfig has no Client.
	ErrNoClient = errors.New("keystore: ssm client must not be nil")

	// ErrNoPath is returned when SSMConfig has no Path.
	ErrNoPath = errors.New("keystore: ssm path must not be empty")
)

// SSMConfig configures an SSM key store.
type SSMConfig struct {
	// Client calls GetParametersByPath. Usually an *ssm.Client. Required.
	Client ssm.GetParametersByPathAPIClient

	// Path is the parameter hierarchy to load, e.g. "/myapp/keys".
	// Required.
	Path string

	// Recursive also loads parameters below nested paths.
	Recursive bool

	// WithDecryption decrypts SecureString parameters. Defaults to true.
	WithDecryption *bool

	// ParameterFilters narrows the loaded parameters.
	ParameterFilters []types.ParameterStringFilter

	// Logger receives one entry per completed load. Optional.
	Logger logx.Logger
}

// SSM is a key store backed by AWS Systems Manager Parameter Store. Every
// parameter under the configured path is a key; its full name is the
// keyId and its value the key material.
//
// Keys are loaded once, on the first Fetch or Exists call or by an
// explicit Load. Concurrent first calls share one load. A failed load is
// retried by the next call.
type SSM struct {
	cfg   SSMConfig
	group singleflight.Group

	mu     sync.RWMutex
	keys   map[string][]byte
	loaded bool
}

var _ httpsig.KeyStore = (*SSM)(nil)

// NewSSM creates an SSM key store.
func NewSSM(cfg SSMConfig) (*SSM, error) {
	if cfg.Client == nil {
		return nil, ErrNoClient
	}

	if cfg.Path == "" {
		return nil, ErrNoPath
	}

	if cfg.WithDecryption == nil {
		cfg.WithDecryption = aws.Bool(true)
	}

	return &SSM{cfg: cfg}, nil
}

// WithSSMPath creates a non-recursive SSM key store for path with
// decryption enabled.
func WithSSMPath(client ssm.GetParametersByPathAPIClient, path string) (*SSM, error) {
	return NewSSM(SSMConfig{Client: client, Path: path})
}

// Fetch returns the key stored under keyID, loading keys first if needed.
func (s *SSM) Fetch(ctx context.Context, keyID string) ([]byte, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	key, ok := s.keys[keyID]
	s.mu.RUnlock()

	if !ok {
		return nil, httpsig.NewKeyNotFoundError(keyID)
	}

	return slices.Clone(key), nil
}

// Exists reports whether keyID is known, loading keys first if needed.
func (s *SSM) Exists(ctx context.Context, keyID string) (bool, error) {
	if err := s.Load(ctx); err != nil {
		return false, err
	}

	s.mu.RLock()
	_, ok := s.keys[keyID]
	s.mu.RUnlock()

	return ok, nil
}

// Loaded reports whether keys have been loaded.
func (s *SSM) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

// Load eagerly loads all keys. It is a no-op once keys are loaded.
func (s *SSM) Load(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}

	_, err, _ := s.group.Do("load", func() (any, error) {
		if s.Loaded() {
			return nil, nil
		}

		keys, pages, err := s.fetchAll(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.keys = keys
		s.loaded = true
		s.mu.Unlock()

		if s.cfg.Logger != nil {
			_ = s.cfg.Logger.Log(logx.LevelInfo, "ssm keys loaded",
				"Path", s.cfg.Path,
				"Pages", pages,
				"Keys", len(keys),
			)
		}

		return nil, nil
	})

	return err
}

func (s *SSM) fetchAll(ctx context.Context) (map[string][]byte, int, error) {
	input := &ssm.GetParametersByPathInput{
		Path:             aws.String(s.cfg.Path),
		Recursive:        aws.Bool(s.cfg.Recursive),
		WithDecryption:   s.cfg.WithDecryption,
		ParameterFilters: s.cfg.ParameterFilters,
	}

	keys := make(map[string][]byte)
	pages := 0

	paginator := ssm.NewGetParametersByPathPaginator(s.cfg.Client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pages, errx.Wrap("keystore: ssm get parameters by path "+s.cfg.Path, err)
		}

		pages++

		for _, p := range out.Parameters {
			keys[aws.ToString(p.Name)] = []byte(aws.ToString(p.Value))
		}
	}

	return keys, pages, nil
}
