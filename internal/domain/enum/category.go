package enum

// Category is a top-level deduction category produced by the classifier.
type Category string

const (
	CategoryPersonalFamily Category = "สิทธิลดหย่อนส่วนตัวและครอบครัว"
	CategorySavingsInvest  Category = "การออมการลงทุนและประกัน"
	CategoryAssetPolicy    Category = "สินทรัพย์และมาตรการนโยบายภาครัฐ"
	CategoryEasyEReceipt   Category = "Easy E-Receipt"
	CategoryDonation       Category = "เงินบริจาค"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryPersonalFamily, CategorySavingsInvest, CategoryAssetPolicy,
		CategoryEasyEReceipt, CategoryDonation:
		return true
	}
	return false
}

// SubCategory is a fine-grained deduction class under a Category. The labels
// mirror the classifier's output vocabulary.
type SubCategory string

const (
	SubCategoryLifeInsurance    SubCategory = "เบี้ยประกันชีวิต"
	SubCategoryAnnuityInsurance SubCategory = "เบี้ยประกันชีวิตแบบบำนาญ"
	SubCategoryRMF              SubCategory = "ค่าซื้อหน่วยลงทุนเพื่อการเลี้ยงชีพ (RMF)"
	SubCategorySSF              SubCategory = "ค่าซื้อหน่วยลงทุนในกองทุนรวมเพื่อการออม SSF"
	SubCategoryThaiESG          SubCategory = "ค่าซื้อหน่วยลงทุนในกองทุนรวมไทยเพื่อความยั่งยืน (Thai ESG)"
	SubCategoryPoliticalParty   SubCategory = "เงินบริจาคพรรคการเมือง"
	SubCategoryDomesticTourism  SubCategory = "ค่าท่องเที่ยวภายในประเทศ"
	SubCategoryHomeConstruction SubCategory = "ค่าจ้างก่อสร้างอาคารเพื่ออยู่อาศัยขึ้นใหม่ให้แก่ผู้รับจ้างซึ่งเป็นผู้ประกอบการจดทะเบียนภาษีมูลค่าเพิ่ม"
	SubCategoryFloodHomeRepair  SubCategory = "ค่าซ่อมบ้านจากอุทกภัย"
	SubCategoryFloodCarRepair   SubCategory = "ค่าซ่อมรถจากอุทกภัย"
	SubCategoryUnknown          SubCategory = "ไม่ทราบหมวดหมู่"
)

func (s SubCategory) String() string {
	return string(s)
}
