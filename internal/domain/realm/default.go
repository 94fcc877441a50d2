package realm

var defaultRealms = []Realm{
	{Name: "Phàm Nhân", Category: CategoryMortal, RequiredExperience: 200, PowerMultiplier: 1.0},
	{Name: "Luyện Thể", Category: CategoryMortal, RequiredExperience: 2000, PowerMultiplier: 1.1},
	{Name: "Luyện Khí", Category: CategoryMortal, RequiredExperience: 3500, PowerMultiplier: 1.2},
	{Name: "Trúc Cơ", Category: CategoryMortal, RequiredExperience: 5000, PowerMultiplier: 1.3},

	{Name: "Kết Đan", Category: CategoryQiCultivation, RequiredExperience: 8000, PowerMultiplier: 1.5},
	{Name: "Nguyên Anh", Category: CategoryQiCultivation, RequiredExperience: 12000, PowerMultiplier: 1.7},
	{Name: "Hóa Thần", Category: CategoryQiCultivation, RequiredExperience: 16000, PowerMultiplier: 1.9},
	{Name: "Luyện Hư", Category: CategoryQiCultivation, RequiredExperience: 22000, PowerMultiplier: 2.1},
	{Name: "Hợp Thể", Category: CategoryQiCultivation, RequiredExperience: 30000, PowerMultiplier: 2.3},
	{Name: "Đại Thừa", Category: CategoryQiCultivation, RequiredExperience: 40000, PowerMultiplier: 2.5},

	{Name: "Độ Kiếp", Category: CategoryImmortal, RequiredExperience: 55000, PowerMultiplier: 3.0},
	{Name: "Nhân Tiên", Category: CategoryImmortal, RequiredExperience: 70000, PowerMultiplier: 3.3},
	{Name: "Địa Tiên", Category: CategoryImmortal, RequiredExperience: 90000, PowerMultiplier: 3.6},
	{Name: "Thiên Tiên", Category: CategoryImmortal, RequiredExperience: 115000, PowerMultiplier: 3.9},
	{Name: "Kim Tiên", Category: CategoryImmortal, RequiredExperience: 145000, PowerMultiplier: 4.2},
	{Name: "Thái Ất Kim Tiên", Category: CategoryImmortal, RequiredExperience: 180000, PowerMultiplier: 4.5},

	{Name: "Đại La Kim Tiên", Category: CategoryEmperor, RequiredExperience: 230000, PowerMultiplier: 5.0},
	{Name: "Tiên Vương", Category: CategoryEmperor, RequiredExperience: 290000, PowerMultiplier: 5.5},
	{Name: "Tiên Đế", Category: CategoryEmperor, RequiredExperience: 360000, PowerMultiplier: 6.0},
	{Name: "Chuẩn Thánh", Category: CategoryEmperor, RequiredExperience: 450000, PowerMultiplier: 6.5},
	{Name: "Thánh Nhân", Category: CategoryEmperor, RequiredExperience: 550000, PowerMultiplier: 7.0},
	{Name: "Thánh Vương", Category: CategoryEmperor, RequiredExperience: 680000, PowerMultiplier: 7.5},

	{Name: "Thánh Đế", Category: CategorySupreme, RequiredExperience: 850000, PowerMultiplier: 8.5},
	{Name: "Đạo Tổ", Category: CategorySupreme, RequiredExperience: 1000000, PowerMultiplier: 9.5},
	{Name: "Hỗn Độn", Category: CategorySupreme, RequiredExperience: 1250000, PowerMultiplier: 10.5},
	{Name: "Bất Hủ", Category: CategorySupreme, RequiredExperience: 1500000, PowerMultiplier: 12.0},
	{Name: "Vĩnh Hằng", Category: CategorySupreme, RequiredExperience: 1800000, PowerMultiplier: 14.0},
	// Terminal realm: the threshold is never consulted.
	{Name: "Chí Tôn", Category: CategorySupreme, RequiredExperience: 0, PowerMultiplier: 16.0},
}

// Default returns the production ladder of 28 realms.
func Default() Catalog {
	return NewCatalog(defaultRealms)
}
