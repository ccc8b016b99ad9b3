package mockBackend

import (
	"github.com/sgzs6721/mediflow-front/router"
)

// 演示账号的统一密码
const SeedPassword = "Mediflow123"

// 演示账号
var seedUsers = []User{
	{Username: "business", RealName: "李业务", Phone: "13800000001", Role: router.RoleBusiness},
	{Username: "admin", RealName: "赵管理", Phone: "13800000002", Role: router.RoleBusinessAdmin},
	{Username: "doctor", RealName: "张医生", Phone: "13800000003", Role: router.RoleDoctor},
	{Username: "nurse", RealName: "王护士", Phone: "13800000004", Role: router.RoleNurse},
}

// 字段权限定义: 数据分类 -> 字段
var permissionFields = []struct {
	Category string
	Field    string
	Label    string
}{
	{Category: "CUSTOMER", Field: "phone", Label: "手机号"},
	{Category: "CUSTOMER", Field: "idCard", Label: "身份证号"},
	{Category: "CUSTOMER", Field: "financialStrength", Label: "经济实力"},
	{Category: "MEDICAL", Field: "diagnosisConclusion", Label: "诊断结论"},
	{Category: "MEDICAL", Field: "treatmentPlanName", Label: "治疗方案"},
	{Category: "ORDER", Field: "orderAmount", Label: "订单金额"},
}

// 默认权限: 业务看客户和订单,医护看医疗数据
var defaultPermission = map[router.Role]map[string]string{
	router.RoleBusiness:      {"CUSTOMER": "EDITABLE", "MEDICAL": "NONE", "ORDER": "EDITABLE"},
	router.RoleBusinessAdmin: {"CUSTOMER": "EDITABLE", "MEDICAL": "READONLY", "ORDER": "EDITABLE"},
	router.RoleDoctor:        {"CUSTOMER": "READONLY", "MEDICAL": "EDITABLE", "ORDER": "NONE"},
	router.RoleNurse:         {"CUSTOMER": "READONLY", "MEDICAL": "READONLY", "ORDER": "NONE"},
}

// Seed 写入演示账号、字段权限和两个客户
func Seed(store *Store) error {
	hash, err := HashPassword(SeedPassword)
	if err != nil {
		return err
	}
	for _, u := range seedUsers {
		user := u
		user.PasswordHash = hash
		if err := store.Users.Insert(&user); err != nil {
			return err
		}
	}

	for _, role := range router.Roles() {
		for _, f := range permissionFields {
			p := &Permission{
				RoleName:       role,
				DataCategory:   f.Category,
				DataField:      f.Field,
				FieldLabel:     f.Label,
				PermissionType: defaultPermission[role][f.Category],
			}
			if err := store.Permissions.Insert(p); err != nil {
				return err
			}
		}
	}

	customers := []Customer{
		{Name: "陈一", Gender: "男", Phone: "13900000001", Industry: "制造业", CustomerStatus: "LEAD"},
		{Name: "林二", Gender: "女", Phone: "13900000002", Industry: "金融", CustomerStatus: "PATIENT"},
	}
	for i := range customers {
		if err := store.Customers.Insert(&customers[i]); err != nil {
			return err
		}
		customers[i].MedicalRecordNo = medicalRecordNo(customers[i].Id)
		if err := store.Customers.Save(&customers[i]); err != nil {
			return err
		}
	}
	return nil
}
