package model

import (
	"fmt"
	"time"
)

// SurveyResponse 설문조사 응답 (제출 1건당 1행)
type SurveyResponse struct {
	ID uint `gorm:"primarykey" json:"id"`

	// 기본 정보
	StoreName   string `gorm:"type:varchar(100);not null" json:"store_name" form:"store_name"`
	OwnerName   string `gorm:"type:varchar(50);not null" json:"owner_name" form:"owner_name"`
	PhoneNumber string `gorm:"type:varchar(20);not null" json:"phone_number" form:"phone_number"`
	Email       string `gorm:"type:varchar(254);not null" json:"email" form:"email"`

	// 매장 정보
	BusinessType      BusinessType `gorm:"type:varchar(20);not null;index" json:"business_type" form:"business_type"`
	BusinessTypeOther string       `gorm:"type:varchar(50)" json:"business_type_other" form:"business_type_other"`
	StoreSize         StoreSize    `gorm:"type:varchar(20);not null;index" json:"store_size" form:"store_size"`
	LocationType      LocationType `gorm:"type:varchar(20);not null;index" json:"location_type" form:"location_type"`
	LocationDetail    string       `gorm:"type:varchar(200)" json:"location_detail" form:"location_detail"`

	// 네이버 플레이스 마케팅 현황
	NaverRegistered    bool              `gorm:"default:false;index" json:"naver_registered" form:"naver_registered"`
	NaverPhotosQuality int               `gorm:"not null" json:"naver_photos_quality" form:"naver_photos_quality"`
	NaverReservation   bool              `gorm:"default:false" json:"naver_reservation" form:"naver_reservation"`
	NaverNewsUpdate    NewsUpdateCadence `gorm:"type:varchar(20);not null" json:"naver_news_update" form:"naver_news_update"`
	NaverDirections    bool              `gorm:"default:false" json:"naver_directions" form:"naver_directions"`
	NaverMarketingMsg  bool              `gorm:"default:false" json:"naver_marketing_msg" form:"naver_marketing_msg"`
	NaverKeywords      bool              `gorm:"default:false" json:"naver_keywords" form:"naver_keywords"`
	NaverVideoClip     bool              `gorm:"default:false" json:"naver_video_clip" form:"naver_video_clip"`
	NaverStatistics    bool              `gorm:"default:false" json:"naver_statistics" form:"naver_statistics"`

	// 인스타그램 마케팅 현황
	InstagramSearchable bool `gorm:"default:false" json:"instagram_searchable" form:"instagram_searchable"`
	InstagramVideoCount int  `gorm:"default:0" json:"instagram_video_count" form:"instagram_video_count"`
	InstagramHasReviews bool `gorm:"default:false" json:"instagram_has_reviews" form:"instagram_has_reviews"`

	// 체험단 마케팅 현황
	BlogContentRecent bool `gorm:"default:false" json:"blog_content_recent" form:"blog_content_recent"`
	BlogDetailedInfo  bool `gorm:"default:false" json:"blog_detailed_info" form:"blog_detailed_info"`

	// 구글 마케팅 현황
	GoogleRegistered   bool `gorm:"default:false;index" json:"google_registered" form:"google_registered"`
	GoogleInfoAccurate bool `gorm:"default:false" json:"google_info_accurate" form:"google_info_accurate"`

	// 유료 광고 현황
	AdNaverPlace           bool   `gorm:"default:false" json:"ad_naver_place" form:"ad_naver_place"`
	AdNaverPlaceBudget     string `gorm:"type:varchar(50)" json:"ad_naver_place_budget" form:"ad_naver_place_budget"`
	AdNaverPowerlink       bool   `gorm:"default:false" json:"ad_naver_powerlink" form:"ad_naver_powerlink"`
	AdNaverPowerlinkBudget string `gorm:"type:varchar(50)" json:"ad_naver_powerlink_budget" form:"ad_naver_powerlink_budget"`
	AdInstagramReels       bool   `gorm:"default:false" json:"ad_instagram_reels" form:"ad_instagram_reels"`
	AdInstagramBudget      string `gorm:"type:varchar(50)" json:"ad_instagram_budget" form:"ad_instagram_budget"`

	// 마케팅 대행사 이용 경험
	UsedMarketingAgency bool               `gorm:"default:false" json:"used_marketing_agency" form:"used_marketing_agency"`
	AgencySatisfaction  AgencySatisfaction `gorm:"type:varchar(20)" json:"agency_satisfaction" form:"agency_satisfaction"`
	AgencyServiceDetail string             `gorm:"type:text" json:"agency_service_detail" form:"agency_service_detail"`

	// 추가 정보
	MainConcerns        string `gorm:"type:text" json:"main_concerns" form:"main_concerns"`
	DesiredImprovements string `gorm:"type:text" json:"desired_improvements" form:"desired_improvements"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}

// BusinessTypeDisplay 기타 업종이면 직접 입력한 업종명을 함께 표시
func (s *SurveyResponse) BusinessTypeDisplay() string {
	if s.BusinessType == BusinessOther && s.BusinessTypeOther != "" {
		return fmt.Sprintf("%s (%s)", s.BusinessType.Label(), s.BusinessTypeOther)
	}
	return s.BusinessType.Label()
}

func (s *SurveyResponse) String() string {
	return fmt.Sprintf("%s - %s (%s)", s.StoreName, s.OwnerName, s.CreatedAt.Format("2006-01-02"))
}
