package permission

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/localCache"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/tool"
)

const (
	permissionPath = "/admin/permissions"
	cachePrefix    = "permission:role:"

	DefaultCacheTTL = 5 * time.Minute
)

// 权限类型
type Type string

const (
	TypeEditable Type = "EDITABLE" // 可编辑
	TypeReadonly Type = "READONLY" // 只读
	TypeNone     Type = "NONE"     // 不可见
)

var typeNames = map[Type]string{
	TypeEditable: "可编辑",
	TypeReadonly: "只读",
	TypeNone:     "不可见",
}

func (t Type) DisplayName() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return string(t)
}

// 字段权限
type Permission struct {
	Id             uint64      `json:"id"`
	RoleName       router.Role `json:"roleName"`
	DataCategory   string      `json:"dataCategory"`
	DataField      string      `json:"dataField"`
	FieldLabel     string      `json:"fieldLabel"`
	PermissionType Type        `json:"permissionType"`
}

// 角色 -> 数据分类 -> 字段权限
type Groups map[router.Role]map[string][]*Permission

type updateForm struct {
	PermissionType string `json:"permissionType" validate:"oneof=EDITABLE READONLY NONE" msg:"权限类型[EDITABLE、READONLY或NONE]"`
}

type checkResult struct {
	RoleName       router.Role `json:"roleName"`
	DataField      string      `json:"dataField"`
	PermissionType Type        `json:"permissionType"`
}

// Client 字段权限管理,按角色缓存
type Client struct {
	gw    *gateway.Client
	cache *localCache.Cache
	ttl   time.Duration
}

type Option func(*Client)

func WithCache(cache *localCache.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithCacheTTL 为0时永不过期
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.ttl = ttl
	}
}

func NewClient(gw *gateway.Client, opts ...Option) *Client {
	c := &Client{gw: gw, ttl: DefaultCacheTTL}
	for _, fc := range opts {
		fc(c)
	}
	if c.cache == nil {
		c.cache = localCache.New()
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]*Permission, error) {
	var list []*Permission
	if err := c.gw.Get(ctx, permissionPath, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ByRole 优先读取本地缓存
func (c *Client) ByRole(ctx context.Context, role router.Role) ([]*Permission, error) {
	if !role.Valid() {
		return nil, c.gw.Surface(gateway.ValidationMessage("roleName", "角色[%s]不存在", role))
	}
	key := cachePrefix + string(role)
	if v, ok := c.cache.Get(key); ok {
		if list, ok := v.([]*Permission); ok {
			return clonePermissions(list), nil
		}
	}

	var list []*Permission
	if err := c.gw.Get(ctx, fmt.Sprintf("%s/role/%s", permissionPath, role), nil, &list); err != nil {
		return nil, err
	}
	c.cache.Set(key, clonePermissions(list), c.ttl)
	return list, nil
}

// clonePermissions 缓存与调用方互不共享
func clonePermissions(list []*Permission) []*Permission {
	res := make([]*Permission, 0, len(list))
	for _, p := range list {
		cp := *p
		res = append(res, &cp)
	}
	return res
}

// Update 修改权限类型,清除该角色缓存
func (c *Client) Update(ctx context.Context, id uint64, typ Type) (*Permission, error) {
	form := &updateForm{PermissionType: string(typ)}
	if fields := tool.Validate(form); len(fields) > 0 {
		return nil, c.gw.Surface(gateway.NewValidationError(fields))
	}
	var data Permission
	if err := c.gw.Put(ctx, fmt.Sprintf("%s/%d", permissionPath, id), form, &data); err != nil {
		return nil, err
	}
	if data.RoleName != "" {
		c.cache.Delete(cachePrefix + string(data.RoleName))
	} else {
		c.cache.DeletePrefix(cachePrefix)
	}
	c.gw.Notifier().Notify(gateway.LevelSuccess, "权限已更新")
	return &data, nil
}

// ClearCache 清除后端和本地缓存
func (c *Client) ClearCache(ctx context.Context) error {
	if err := c.gw.Post(ctx, permissionPath+"/clear-cache", nil, nil); err != nil {
		return err
	}
	c.cache.DeletePrefix(cachePrefix)
	c.gw.Notifier().Notify(gateway.LevelSuccess, "权限缓存已清除")
	return nil
}

// Check 查询角色对字段的权限,未配置视为不可见
func (c *Client) Check(ctx context.Context, role router.Role, field string) (Type, error) {
	var res checkResult
	query := map[string]string{"roleName": string(role), "dataField": field}
	if err := c.gw.Get(ctx, permissionPath+"/check", query, &res); err != nil {
		return "", err
	}
	if res.PermissionType == "" {
		return TypeNone, nil
	}
	return res.PermissionType, nil
}

// Group 按角色、数据分类分组,分类内按字段排序
func Group(list []*Permission) Groups {
	groups := Groups{}
	for _, p := range list {
		categories, ok := groups[p.RoleName]
		if !ok {
			categories = map[string][]*Permission{}
			groups[p.RoleName] = categories
		}
		categories[p.DataCategory] = append(categories[p.DataCategory], p)
	}
	for _, categories := range groups {
		for _, items := range categories {
			sort.SliceStable(items, func(i, j int) bool { return items[i].DataField < items[j].DataField })
		}
	}
	return groups
}
