package model

// animalSigns 号码对应的动物标志兜底表（feed 缺失 sign 字段时使用）
// 同一拉号组（mod 25）共用一个动物，和民间玩法的分组口径一致
var animalSigns = [25]string{
	"Delfín", "Carnero", "Toro", "Ciempiés", "Alacrán",
	"León", "Rana", "Perico", "Ratón", "Águila",
	"Tigre", "Gato", "Caballo", "Mono", "Paloma",
	"Zorro", "Oso", "Pavo", "Burro", "Chivo",
	"Cochino", "Gallo", "Camello", "Cebra", "Iguana",
}

// AnimalSignFor 返回号码的动物标志，号码越界返回空串
func AnimalSignFor(number int) string {
	if number < 0 || number > 99 {
		return ""
	}
	return animalSigns[number%25]
}
