package permission

import (
	"context"
	"testing"
	"time"

	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/localCache"
	"github.com/sgzs6721/mediflow-front/mockBackend"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ts     *mockBackend.TestServer
	rec    *gateway.Recorder
	cache  *localCache.Cache
	client *Client
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ts := mockBackend.NewTestServer(t, time.Now)
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Login(context.Background(), ts.Token(t, "admin"), session.Profile{Username: "admin", Role: router.RoleBusinessAdmin}))
	rec := &gateway.Recorder{}
	cache := localCache.New()
	gw := gateway.New(ts.BaseURL(), gateway.WithTokenSource(store), gateway.WithNotifier(rec))
	opts = append([]Option{WithCache(cache)}, opts...)
	return &fixture{ts: ts, rec: rec, cache: cache, client: NewClient(gw, opts...)}
}

func TestListAndGroup(t *testing.T) {
	f := newFixture(t)

	list, err := f.client.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, len(router.Roles())*6)

	groups := Group(list)
	assert.Len(t, groups, len(router.Roles()))
	doctor := groups[router.RoleDoctor]
	require.Len(t, doctor["CUSTOMER"], 3)
	assert.Equal(t, "financialStrength", doctor["CUSTOMER"][0].DataField)
	assert.Equal(t, TypeEditable, doctor["MEDICAL"][0].PermissionType)
	assert.Equal(t, TypeNone, doctor["ORDER"][0].PermissionType)
}

func TestByRoleCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.client.ByRole(ctx, router.RoleNurse)
	require.NoError(t, err)
	require.Len(t, first, 6)
	before := f.ts.Requests()

	second, err := f.client.ByRole(ctx, router.RoleNurse)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, before, f.ts.Requests(), "命中缓存不请求后端")

	second[0].FieldLabel = "已修改"
	third, err := f.client.ByRole(ctx, router.RoleNurse)
	require.NoError(t, err)
	assert.Equal(t, first, third, "修改返回值不影响缓存")

	_, err = f.client.ByRole(ctx, router.Role("ROOT"))
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
}

func TestByRoleExpires(t *testing.T) {
	f := newFixture(t, WithCacheTTL(20*time.Millisecond))
	ctx := context.Background()

	_, err := f.client.ByRole(ctx, router.RoleDoctor)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	before := f.ts.Requests()
	_, err = f.client.ByRole(ctx, router.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.ts.Requests())
}

func TestUpdateInvalidatesRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nurse, err := f.client.ByRole(ctx, router.RoleNurse)
	require.NoError(t, err)
	_, err = f.client.ByRole(ctx, router.RoleDoctor)
	require.NoError(t, err)
	target := nurse[0]

	updated, err := f.client.Update(ctx, target.Id, TypeEditable)
	require.NoError(t, err)
	assert.Equal(t, TypeEditable, updated.PermissionType)
	assert.Equal(t, []string{"权限已更新"}, f.rec.Messages(gateway.LevelSuccess))

	_, ok := f.cache.Get(cachePrefix + string(router.RoleNurse))
	assert.False(t, ok)
	_, ok = f.cache.Get(cachePrefix + string(router.RoleDoctor))
	assert.True(t, ok, "其他角色缓存保留")

	fresh, err := f.client.ByRole(ctx, router.RoleNurse)
	require.NoError(t, err)
	assert.Equal(t, TypeEditable, fresh[0].PermissionType)

	before := f.ts.Requests()
	_, err = f.client.Update(ctx, target.Id, Type("ADMIN"))
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
	assert.Equal(t, before, f.ts.Requests())
}

func TestClearCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cache.Set("other", 1, 0)

	for _, role := range router.Roles() {
		_, err := f.client.ByRole(ctx, role)
		require.NoError(t, err)
	}
	require.NoError(t, f.client.ClearCache(ctx))
	assert.Equal(t, 1, f.cache.Len())
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		role  router.Role
		field string
		want  Type
	}{
		{role: router.RoleBusiness, field: "phone", want: TypeEditable},
		{role: router.RoleBusiness, field: "diagnosisConclusion", want: TypeNone},
		{role: router.RoleBusinessAdmin, field: "treatmentPlanName", want: TypeReadonly},
		{role: router.RoleNurse, field: "unknownField", want: TypeNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.field, func(t *testing.T) {
			got, err := f.client.Check(context.Background(), tt.role, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, typeNames[tt.want], got.DisplayName())
		})
	}
}
