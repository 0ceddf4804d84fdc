package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specmock/specmock/internal/contract"
)

func doc(title string, paths ...string) *contract.Document {
	d := &contract.Document{Info: contract.Info{Title: title, Version: "1.0"}}
	for _, p := range paths {
		d.Paths = append(d.Paths, &contract.PathEntry{
			Template: p,
			Operations: map[contract.HTTPMethod]*contract.Operation{
				contract.GET: {Summary: "get " + p},
			},
		})
	}
	return d
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	users := doc("users", "/users")
	r.Register("users", users)

	got, err := r.Get("users")
	require.NoError(t, err)
	assert.Same(t, users, got)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := New()

	_, err := r.Get("nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Name)
}

func TestRegistry_ReRegisterKeepsOrder(t *testing.T) {
	r := New()
	r.Register("users", doc("users"))
	r.Register("orders", doc("orders"))
	r.Register("users", doc("users v2"))

	assert.Equal(t, []string{"users", "orders"}, r.Names())

	got, err := r.Get("users")
	require.NoError(t, err)
	assert.Equal(t, "users v2", got.Info.Title)
}

func TestRegistry_Default(t *testing.T) {
	r := New()

	_, err := r.Default()
	assert.ErrorIs(t, err, ErrNoDefault)

	r.Register("users", doc("users"))
	require.NoError(t, r.SetDefault("users"))

	got, err := r.Default()
	require.NoError(t, err)
	assert.Equal(t, "users", got.Info.Title)
}

func TestRegistry_SetDefaultUnknown(t *testing.T) {
	r := New()

	var nf *NotFoundError
	require.ErrorAs(t, r.SetDefault("ghost"), &nf)
}

func TestRegistry_ReplaceAll(t *testing.T) {
	r := New()
	r.Register("old", doc("old"))
	require.NoError(t, r.SetDefault("old"))

	docs := map[string]*contract.Document{
		"users":  doc("users"),
		"orders": doc("orders"),
	}
	r.ReplaceAll([]string{"users", "orders"}, docs, "users")

	assert.Equal(t, []string{"users", "orders"}, r.Names())

	_, err := r.Get("old")
	assert.Error(t, err)

	def, err := r.Default()
	require.NoError(t, err)
	assert.Equal(t, "users", def.Info.Title)
}

func TestRegistry_Infos(t *testing.T) {
	r := New()
	r.Register("users", doc("users", "/users", "/users/{id}"))
	r.Register("orders", doc("orders", "/orders"))

	infos := r.Infos()
	require.Len(t, infos, 2)
	assert.Equal(t, Info{Name: "users", Title: "users", Version: "1.0", PathCount: 2}, infos[0])
	assert.Equal(t, Info{Name: "orders", Title: "orders", Version: "1.0", PathCount: 1}, infos[1])
}

func TestRegistry_Endpoints(t *testing.T) {
	r := New()
	r.Register("users", doc("users", "/users", "/users/{id}"))

	eps, err := r.Endpoints("users")
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "/users", eps[0].Path)
	assert.Equal(t, []string{"get"}, eps[0].Methods)
	assert.Equal(t, "get /users", eps[0].Description)

	_, err = r.Endpoints("ghost")
	assert.Error(t, err)
}

func TestRegistry_ConcurrentReadersDuringWrites(t *testing.T) {
	r := New()
	r.Register("users", doc("users", "/users"))
	require.NoError(t, r.SetDefault("users"))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if d, err := r.Default(); err == nil {
					// A reader must always see a complete document.
					assert.NotEmpty(t, d.Info.Title)
				}
				r.Names()
				r.Infos()
			}
		}()
	}

	for i := 0; i < 200; i++ {
		r.Register("users", doc("users", "/users"))
		r.ReplaceAll([]string{"users"}, map[string]*contract.Document{
			"users": doc("users", "/users"),
		}, "users")
	}
	close(stop)
	wg.Wait()
}
