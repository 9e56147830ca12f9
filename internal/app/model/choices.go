package model

// Choice 선택 항목 (코드, 표시명)
type Choice struct {
	Value string
	Label string
}

type BusinessType string

const (
	BusinessRestaurant BusinessType = "restaurant"
	BusinessCafe       BusinessType = "cafe"
	BusinessBar        BusinessType = "bar"
	BusinessBakery     BusinessType = "bakery"
	BusinessOther      BusinessType = "other"
)

var BusinessTypeChoices = []Choice{
	{string(BusinessRestaurant), "음식점"},
	{string(BusinessCafe), "카페"},
	{string(BusinessBar), "주점"},
	{string(BusinessBakery), "베이커리"},
	{string(BusinessOther), "기타"},
}

func (b BusinessType) Label() string { return choiceLabel(BusinessTypeChoices, string(b)) }

type StoreSize string

const (
	StoreSmall  StoreSize = "small"
	StoreMedium StoreSize = "medium"
	StoreLarge  StoreSize = "large"
)

var StoreSizeChoices = []Choice{
	{string(StoreSmall), "소형 (10평 미만)"},
	{string(StoreMedium), "중형 (10-30평)"},
	{string(StoreLarge), "대형 (30평 이상)"},
}

func (s StoreSize) Label() string { return choiceLabel(StoreSizeChoices, string(s)) }

type LocationType string

const (
	LocationDowntown    LocationType = "downtown"
	LocationLandmark    LocationType = "landmark"
	LocationApartment   LocationType = "apartment"
	LocationVilla       LocationType = "villa"
	LocationUniversity  LocationType = "university"
	LocationOffice      LocationType = "office"
	LocationTraditional LocationType = "traditional"
	LocationOther       LocationType = "other"
)

var LocationTypeChoices = []Choice{
	{string(LocationDowntown), "번화가/역주변"},
	{string(LocationLandmark), "랜드마크 주변"},
	{string(LocationApartment), "아파트 주거상권"},
	{string(LocationVilla), "연립/빌라 주거상권"},
	{string(LocationUniversity), "대학상권"},
	{string(LocationOffice), "오피스/업무지구"},
	{string(LocationTraditional), "전통시장 주변"},
	{string(LocationOther), "기타"},
}

func (l LocationType) Label() string { return choiceLabel(LocationTypeChoices, string(l)) }

type NewsUpdateCadence string

const (
	NewsDaily   NewsUpdateCadence = "daily"
	NewsWeekly  NewsUpdateCadence = "weekly"
	NewsMonthly NewsUpdateCadence = "monthly"
	NewsRarely  NewsUpdateCadence = "rarely"
	NewsNever   NewsUpdateCadence = "never"
)

var NewsUpdateChoices = []Choice{
	{string(NewsDaily), "매일"},
	{string(NewsWeekly), "주 1-2회"},
	{string(NewsMonthly), "월 1-2회"},
	{string(NewsRarely), "거의 안함"},
	{string(NewsNever), "전혀 안함"},
}

func (n NewsUpdateCadence) Label() string { return choiceLabel(NewsUpdateChoices, string(n)) }

type AgencySatisfaction string

const (
	AgencyVerySatisfied    AgencySatisfaction = "very_satisfied"
	AgencySatisfied        AgencySatisfaction = "satisfied"
	AgencyNeutral          AgencySatisfaction = "neutral"
	AgencyDissatisfied     AgencySatisfaction = "dissatisfied"
	AgencyVeryDissatisfied AgencySatisfaction = "very_dissatisfied"
)

var AgencySatisfactionChoices = []Choice{
	{string(AgencyVerySatisfied), "매우 만족"},
	{string(AgencySatisfied), "만족"},
	{string(AgencyNeutral), "보통"},
	{string(AgencyDissatisfied), "불만족"},
	{string(AgencyVeryDissatisfied), "매우 불만족"},
}

func (a AgencySatisfaction) Label() string { return choiceLabel(AgencySatisfactionChoices, string(a)) }

// PhotoQualityChoices 사진 매력도 1~5점
var PhotoQualityChoices = []Choice{
	{"1", "1"}, {"2", "2"}, {"3", "3"}, {"4", "4"}, {"5", "5"},
}

// HasChoice 선언된 코드와 정확히 (대소문자 구분) 일치하는지 확인
func HasChoice(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// choiceLabel falls back to the raw code for unknown values.
func choiceLabel(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
