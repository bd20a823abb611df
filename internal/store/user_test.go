package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/database"
	"taskboard/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeUserRow 實作 pgx.Row，用於模擬單筆掃描行為。
type fakeUserRow struct {
	scanErr error
	user    *model.User
	exists  bool
	count   int
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	switch len(dest) {
	case 5:
		// GetUserByID / GetUserByEmail: id, email, password_hash, role, created_at
		u := r.user
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Email
		*dest[2].(*string) = u.PasswordHash
		*dest[3].(*model.Role) = u.Role
		*dest[4].(*time.Time) = u.CreatedAt
	case 2:
		// CreateUser: id, created_at
		*dest[0].(*int) = r.user.ID
		*dest[1].(*time.Time) = r.user.CreatedAt
	case 1:
		switch d := dest[0].(type) {
		case *bool:
			*d = r.exists
		case *int:
			*d = r.count
		default:
			panic("fakeUserRow.Scan: unexpected dest type")
		}
	default:
		panic("fakeUserRow.Scan: unexpected number of dest")
	}
	return nil
}

// fakeUserRows 實作 pgx.Rows，用於模擬多筆掃描行為。
type fakeUserRows struct {
	data    []model.User
	idx     int
	scanErr error
	err     error
}

func (r *fakeUserRows) Close()                                       {}
func (r *fakeUserRows) Err() error                                   { return r.err }
func (r *fakeUserRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeUserRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeUserRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeUserRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.data[r.idx]
	r.idx++
	*dest[0].(*int) = u.ID
	*dest[1].(*string) = u.Email
	*dest[2].(*string) = u.PasswordHash
	*dest[3].(*model.Role) = u.Role
	*dest[4].(*time.Time) = u.CreatedAt
	return nil
}
func (r *fakeUserRows) Values() ([]any, error) { return nil, nil }
func (r *fakeUserRows) RawValues() [][]byte    { return nil }
func (r *fakeUserRows) Conn() *pgx.Conn        { return nil }

// fakeTx 實作 DeleteUserCascade 所需的最小交易介面。
type fakeTx struct {
	pgx.Tx
	execErrs   []error
	execCount  int
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	var err error
	if t.execCount < len(t.execErrs) {
		err = t.execErrs[t.execCount]
	}
	t.execCount++
	return pgconn.CommandTag{}, err
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

/* ---------- 完整測試 ---------- */

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	sample := model.User{
		ID:           1,
		Email:        "a@b.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		CreatedAt:    now,
	}

	/* GetUserByID / GetUserByEmail */
	t.Run("GetByID ok", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: &sample}
			},
		}
		got, err := GetUserByID(context.Background(), p, 1)
		require.NoError(t, err)
		require.Equal(t, sample.Email, got.Email)
		require.Equal(t, model.RoleUser, got.Role)
	})

	t.Run("GetByID err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetUserByID(context.Background(), p, 99)
		require.Error(t, err)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("GetByEmail ok", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: &sample}
			},
		}
		got, err := GetUserByEmail(context.Background(), p, "a@b.com")
		require.NoError(t, err)
		require.Equal(t, sample.ID, got.ID)
	})

	t.Run("GetByEmail err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("boom")}
			},
		}
		_, err := GetUserByEmail(context.Background(), p, "a@b.com")
		require.Error(t, err)
	})

	/* AdminExists */
	t.Run("AdminExists true", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{exists: true}
			},
		}
		ok, err := AdminExists(context.Background(), p)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("AdminExists err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("boom")}
			},
		}
		_, err := AdminExists(context.Background(), p)
		require.Error(t, err)
	})

	/* CreateUser */
	t.Run("Create ok", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{user: &sample}
			},
		}
		u := model.User{Email: "a@b.com", PasswordHash: "hash", Role: model.RoleUser}
		got, err := CreateUser(context.Background(), p, &u)
		require.NoError(t, err)
		require.Equal(t, 1, got.ID)
		require.Equal(t, now, got.CreatedAt)
	})

	t.Run("Create duplicate email", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
			},
		}
		_, err := CreateUser(context.Background(), p, &model.User{})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("Create err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("boom")}
			},
		}
		_, err := CreateUser(context.Background(), p, &model.User{})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrDuplicateEmail)
	})

	/* UpdateUser */
	t.Run("Update ok", func(t *testing.T) {
		p := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, nil
			},
		}
		require.NoError(t, UpdateUser(context.Background(), p, &sample))
	})

	t.Run("Update duplicate email", func(t *testing.T) {
		p := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
			},
		}
		require.ErrorIs(t, UpdateUser(context.Background(), p, &sample), ErrDuplicateEmail)
	})

	t.Run("Update err", func(t *testing.T) {
		p := &database.FakeDB{
			ExecFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, errors.New("boom")
			},
		}
		require.Error(t, UpdateUser(context.Background(), p, &sample))
	})

	/* ListUsers */
	t.Run("List ok", func(t *testing.T) {
		p := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeUserRows{data: []model.User{sample, sample}}, nil
			},
		}
		users, err := ListUsers(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, users, 2)
	})

	t.Run("List query err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return nil, errors.New("boom")
			},
		}
		_, err := ListUsers(context.Background(), p)
		require.Error(t, err)
	})

	t.Run("List scan err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeUserRows{data: []model.User{sample}, scanErr: errors.New("scan")}, nil
			},
		}
		_, err := ListUsers(context.Background(), p)
		require.Error(t, err)
	})

	t.Run("List rows err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
				return &fakeUserRows{err: errors.New("rows")}, nil
			},
		}
		_, err := ListUsers(context.Background(), p)
		require.Error(t, err)
	})

	/* CountUsers */
	t.Run("Count ok", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{count: 7}
			},
		}
		n, err := CountUsers(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, 7, n)
	})

	t.Run("Count err", func(t *testing.T) {
		p := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: errors.New("boom")}
			},
		}
		_, err := CountUsers(context.Background(), p)
		require.Error(t, err)
	})
}

func TestDeleteUserCascade(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		tx := &fakeTx{}
		p := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}
		require.NoError(t, DeleteUserCascade(context.Background(), p, 1))
		require.Equal(t, 2, tx.execCount)
		require.True(t, tx.committed)
	})

	t.Run("begin err", func(t *testing.T) {
		p := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return nil, errors.New("begin") },
		}
		require.Error(t, DeleteUserCascade(context.Background(), p, 1))
	})

	t.Run("delete tasks err", func(t *testing.T) {
		tx := &fakeTx{execErrs: []error{errors.New("tasks")}}
		p := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}
		require.Error(t, DeleteUserCascade(context.Background(), p, 1))
		require.False(t, tx.committed)
		require.True(t, tx.rolledBack)
	})

	t.Run("delete user err", func(t *testing.T) {
		tx := &fakeTx{execErrs: []error{nil, errors.New("user")}}
		p := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}
		require.Error(t, DeleteUserCascade(context.Background(), p, 1))
		require.False(t, tx.committed)
	})

	t.Run("commit err", func(t *testing.T) {
		tx := &fakeTx{commitErr: errors.New("commit")}
		p := &database.FakeDB{
			BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil },
		}
		require.Error(t, DeleteUserCascade(context.Background(), p, 1))
	})
}
