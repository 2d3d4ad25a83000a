package goConsole

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MrEthical07/goConsole/dispatch"
	"github.com/MrEthical07/goConsole/session"
)

// Page is one page of a list endpoint.
type Page[T any] = dispatch.Page[T]

// UserInfo is the signed-in user as returned by login and /me.
type UserInfo = session.UserInfo

// Status is the enable state shared by users, roles and menus.
type Status int

const (
	StatusNormal   Status = 1
	StatusDisabled Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Option is a label/value pair used by select lists. Integral values decode
// as int64, other numbers as float64, strings as string.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label string          `json:"label"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Label = raw.Label
	o.Value = nil
	if len(raw.Value) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			v = i
		} else if f, err := n.Float64(); err == nil {
			v = f
		}
	}
	o.Value = v
	return nil
}

// ListQuery carries the paging parameters common to every list endpoint.
type ListQuery struct {
	Current  int `json:"current,omitempty"`
	PageSize int `json:"pageSize,omitempty"`
}

/*
====================================
AUTH
====================================
*/

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type LoginResponse struct {
	Token    string   `json:"token"`
	UserInfo UserInfo `json:"userInfo"`
}

/*
====================================
USERS
====================================
*/

type User struct {
	ID          int64    `json:"id" yaml:"id"`
	Username    string   `json:"username" yaml:"username"`
	Email       string   `json:"email" yaml:"email"`
	RealName    string   `json:"realName,omitempty" yaml:"realName,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Status      Status   `json:"status" yaml:"status"`
	LastLoginAt string   `json:"lastLoginAt,omitempty" yaml:"lastLoginAt,omitempty"`
	CreatedAt   string   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   string   `json:"updatedAt" yaml:"updatedAt"`
	Roles       []Option `json:"roles" yaml:"roles"`
}

type UserQuery struct {
	ListQuery
	Username string `json:"username,omitempty"`
	// Status is "1", "2" or "all".
	Status string `json:"status,omitempty"`
}

type CreateUserRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	RealName string  `json:"realName,omitempty"`
	Status   Status  `json:"status,omitempty"`
	RoleIDs  []int64 `json:"roleIds"`
}

type UpdateUserRequest struct {
	Email    string  `json:"email,omitempty"`
	RealName string  `json:"realName,omitempty"`
	Status   Status  `json:"status,omitempty"`
	RoleIDs  []int64 `json:"roleIds,omitempty"`
}

/*
====================================
ROLES
====================================
*/

type Role struct {
	ID          int64    `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Code        string   `json:"code" yaml:"code"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status   `json:"status" yaml:"status"`
	SortOrder   int      `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
	CreatedAt   string   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   string   `json:"updatedAt" yaml:"updatedAt"`
	Menus       []Option `json:"menus" yaml:"menus"`
}

type RoleQuery struct {
	ListQuery
	Name   string `json:"name,omitempty"`
	Code   string `json:"code,omitempty"`
	Status string `json:"status,omitempty"`
}

type CreateRoleRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description string  `json:"description,omitempty"`
	Status      Status  `json:"status,omitempty"`
	SortOrder   int     `json:"sortOrder,omitempty"`
	MenuIDs     []int64 `json:"menuIds"`
}

type UpdateRoleRequest struct {
	Name        string  `json:"name,omitempty"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description,omitempty"`
	Status      Status  `json:"status,omitempty"`
	SortOrder   int     `json:"sortOrder,omitempty"`
	MenuIDs     []int64 `json:"menuIds,omitempty"`
}

/*
====================================
MENUS
====================================
*/

type Menu struct {
	ID        int64  `json:"id" yaml:"id"`
	ParentID  int64  `json:"parentId" yaml:"parentId"`
	Name      string `json:"name" yaml:"name"`
	Code      string `json:"code" yaml:"code"`
	MenuType  int    `json:"menuType" yaml:"menuType"`
	SortOrder int    `json:"sortOrder" yaml:"sortOrder"`
	Status    Status `json:"status" yaml:"status"`
	IsSystem  bool   `json:"isSystem" yaml:"isSystem"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`
	// Children is filled by [BuildMenuTree] and nil for leaves.
	Children []Menu `json:"children,omitempty" yaml:"children,omitempty"`
}

type MenuQuery struct {
	ListQuery
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// MenuRequest is the body of both create and update.
type MenuRequest struct {
	ParentID  int64  `json:"parentId"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	MenuType  int    `json:"menuType"`
	SortOrder int    `json:"sortOrder"`
	Status    Status `json:"status"`
}

/*
====================================
DICTIONARY
====================================
*/

type Dict struct {
	ID        int64  `json:"id" yaml:"id"`
	DictType  string `json:"dictType" yaml:"dictType"`
	Label     string `json:"label" yaml:"label"`
	Value     string `json:"value" yaml:"value"`
	IsDefault bool   `json:"isDefault" yaml:"isDefault"`
}

type DictQuery struct {
	ListQuery
	DictType string `json:"dictType,omitempty"`
	Q        string `json:"q,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type CreateDictRequest struct {
	DictType  string `json:"dictType"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

type UpdateDictRequest struct {
	DictType  string `json:"dictType,omitempty"`
	Label     string `json:"label,omitempty"`
	Value     string `json:"value,omitempty"`
	IsDefault *bool  `json:"isDefault,omitempty"`
}

/*
====================================
OPERATION LOGS
====================================
*/

type LogEntry struct {
	ID          int64  `json:"id" yaml:"id"`
	UserID      int64  `json:"userId" yaml:"userId"`
	Username    string `json:"username" yaml:"username"`
	Action      string `json:"action" yaml:"action"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Data        string `json:"data,omitempty" yaml:"data,omitempty"`
	Status      string `json:"status" yaml:"status"`
	DurationMs  int64  `json:"durationMs" yaml:"durationMs"`
	IPAddress   string `json:"ipAddress" yaml:"ipAddress"`
	UserAgent   string `json:"userAgent" yaml:"userAgent"`
	CreatedAt   string `json:"createdAt" yaml:"createdAt"`
}

type LogQuery struct {
	ListQuery
	Search      string `json:"search,omitempty"`
	Username    string `json:"username,omitempty"`
	Action      string `json:"action,omitempty"`
	Description string `json:"description,omitempty"`
	IPAddress   string `json:"ipAddress,omitempty"`
}

/*
====================================
DASHBOARD
====================================
*/

type DashboardStats struct {
	TotalUsers   int64  `json:"totalUsers" yaml:"totalUsers"`
	ActiveUsers  int64  `json:"activeUsers" yaml:"activeUsers"`
	TotalRoles   int64  `json:"totalRoles" yaml:"totalRoles"`
	SystemUptime string `json:"systemUptime" yaml:"systemUptime"`
	TodayLogins  int64  `json:"todayLogins" yaml:"todayLogins"`
	PendingUsers int64  `json:"pendingUsers" yaml:"pendingUsers"`
}

type SystemHealth struct {
	MemoryTotal float64 `json:"memoryTotal" yaml:"memoryTotal"`
	MemoryUsed  float64 `json:"memoryUsed" yaml:"memoryUsed"`
	MemoryFree  float64 `json:"memoryFree" yaml:"memoryFree"`
	CPUTotal    float64 `json:"cpuTotal" yaml:"cpuTotal"`
	CPUUsed     float64 `json:"cpuUsed" yaml:"cpuUsed"`
	CPUFree     float64 `json:"cpuFree" yaml:"cpuFree"`
	DiskTotal   float64 `json:"diskTotal" yaml:"diskTotal"`
	DiskUsed    float64 `json:"diskUsed" yaml:"diskUsed"`
	DiskFree    float64 `json:"diskFree" yaml:"diskFree"`
}

type SystemMetrics struct {
	AvgResponseTime float64 `json:"avgResponseTime" yaml:"avgResponseTime"`
	ErrorRate       float64 `json:"errorRate" yaml:"errorRate"`
	TotalRequests   int64   `json:"totalRequests" yaml:"totalRequests"`
}

type ActivityPoint struct {
	Date  string `json:"date" yaml:"date"`
	Count int64  `json:"count" yaml:"count"`
}

type UserActivity struct {
	DailyLogins  []ActivityPoint `json:"dailyLogins" yaml:"dailyLogins"`
	HourlyActive []ActivityPoint `json:"hourlyActive" yaml:"hourlyActive"`
}
