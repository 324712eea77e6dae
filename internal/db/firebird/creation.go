package firebird

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fbsql/fbsql/internal/logger"
)

// CreateDatabase creates the database the parameters name and verifies
// it is reachable. The driver's createdb entry creates the file as part
// of the first connect.
func CreateDatabase(ctx context.Context, params *ConnParams) error {
	sqlDB, err := sql.Open(createDriverName, params.DSN())
	if err != nil {
		return fmt.Errorf("failed to create firebird database %q: %w", params.Database, err)
	}
	defer sqlDB.Close()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to create firebird database %q: %w", params.Database, err)
	}
	logger.Info("created firebird database %q", params.Database)
	return nil
}

// TestParams derives the parameter set of a throwaway test database
// living next to the configured one: same server and credentials, a
// unique test_ file name.
func TestParams(params *ConnParams) *ConnParams {
	test := *params
	test.Options = make(map[string]string, len(params.Options))
	for k, v := range params.Options {
		test.Options[k] = v
	}

	dir := filepath.Dir(params.Database)
	base := filepath.Base(params.Database)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	suffix := uuid.NewString()[:8]
	test.Database = filepath.Join(dir, fmt.Sprintf("test_%s_%s%s", stem, suffix, ext))
	return &test
}

// DestroyDatabase removes a database file. Only local databases can be
// destroyed: the wire protocol driver exposes no drop operation, so a
// remote file has to be removed on the server.
func (p *ConnParams) DestroyDatabase() error {
	if p.Host != "" && p.Host != defaultHost {
		return fmt.Errorf("cannot destroy remote database %q on host %q", p.Database, p.Host)
	}
	if err := os.Remove(p.Database); err != nil {
		return fmt.Errorf("failed to destroy firebird database %q: %w", p.Database, err)
	}
	logger.Info("destroyed firebird database %q", p.Database)
	return nil
}
