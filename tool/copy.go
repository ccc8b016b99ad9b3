package tool

import (
	"errors"
	"strconv"

	"github.com/jinzhu/copier"
	"github.com/sgzs6721/mediflow-front/db"
)

var errSrcType = errors.New("src type not matching")

// 拷贝自定义映射关系
var converters = []copier.TypeConverter{
	// string 转 db.LocalTime
	{
		SrcType: copier.String,
		DstType: db.LocalTime{},
		Fn: func(src any) (any, error) {
			s, ok := src.(string)
			if !ok {
				return nil, errSrcType
			}
			if s == "" {
				return db.LocalTime{}, nil
			}
			return db.ParseLocalTime(s)
		},
	},
	// db.LocalTime 转 string
	{
		SrcType: db.LocalTime{},
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			t, ok := src.(db.LocalTime)
			if !ok {
				return nil, errSrcType
			}
			return t.String(), nil
		},
	},
	// string 转 uint64
	{
		SrcType: copier.String,
		DstType: uint64(0),
		Fn: func(src any) (any, error) {
			s, ok := src.(string)
			if !ok {
				return nil, errSrcType
			}
			if s == "" {
				return uint64(0), nil
			}
			return strconv.ParseUint(s, 10, 64)
		},
	},
	// uint64 转 string
	{
		SrcType: uint64(0),
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			i, ok := src.(uint64)
			if !ok {
				return nil, errSrcType
			}
			return strconv.FormatUint(i, 10), nil
		},
	},
	// string 转 float64
	{
		SrcType: copier.String,
		DstType: float64(0),
		Fn: func(src any) (any, error) {
			s, ok := src.(string)
			if !ok {
				return nil, errSrcType
			}
			if s == "" {
				return float64(0), nil
			}
			return strconv.ParseFloat(s, 64)
		},
	},
}

// CopyDeep 深度复制结构体
func CopyDeep(target any, source any) error {
	return copier.CopyWithOption(target, source, copier.Option{
		DeepCopy:   true,
		Converters: converters,
	})
}

// Copy 浅拷贝
func Copy(target any, source any) error {
	return copier.CopyWithOption(target, source, copier.Option{
		Converters: converters,
	})
}
