// Package playtypes models the Play details document as it crosses the
// gateway boundary. Every optional field is a pointer (or slice) tagged
// omitempty, so marshalling emits exactly the fields the upstream populated
// and never invents defaults for absent ones. The same structs are used to
// decode upstream payloads and to project the gateway's JSON responses, which
// keeps the projection stable under round-trip.
package playtypes

// DetailsResponse is the top-level details document for one app on one
// channel.
type DetailsResponse struct {
	Item           *Item            `json:"item,omitempty"`
	FooterHTML     *string          `json:"footer_html,omitempty"`
	DiscoveryBadge []DiscoveryBadge `json:"discovery_badge,omitempty"`
	EnableReviews  *bool            `json:"enable_reviews,omitempty"`
	Features       *Features        `json:"features,omitempty"`
}

type Item struct {
	ID                          *string          `json:"id,omitempty"`
	SubID                       *string          `json:"sub_id,omitempty"`
	Type                        *int32           `json:"type,omitempty"`
	CategoryID                  *int32           `json:"category_id,omitempty"`
	Title                       *string          `json:"title,omitempty"`
	Creator                     *string          `json:"creator,omitempty"`
	DescriptionHTML             *string          `json:"description_html,omitempty"`
	Offer                       []Offer          `json:"offer,omitempty"`
	Details                     *DocumentDetails `json:"details,omitempty"`
	Subtitle                    *string          `json:"subtitle,omitempty"`
	AppInfo                     *AppInfo         `json:"app_info,omitempty"`
	Mature                      *bool            `json:"mature,omitempty"`
	PromotionalDescription      *string          `json:"promotional_description,omitempty"`
	AvailableForPreregistration *bool            `json:"available_for_preregistration,omitempty"`
	ForceShareability           *bool            `json:"force_shareability,omitempty"`
}

type DocumentDetails struct {
	AppDetails *AppDetails `json:"app_details,omitempty"`
}

type AppDetails struct {
	DeveloperName      *string `json:"developer_name,omitempty"`
	MajorVersionNumber *int32  `json:"major_version_number,omitempty"`
	VersionCode        *int32  `json:"version_code,omitempty"`
	VersionString      *string `json:"version_string,omitempty"`
	Title              *string `json:"title,omitempty"`
	InfoDownloadSize   *int64  `json:"info_download_size,omitempty"`
	DeveloperEmail     *string `json:"developer_email,omitempty"`
	DeveloperWebsite   *string `json:"developer_website,omitempty"`
	InfoDownload       *string `json:"info_download,omitempty"`
	PackageName        *string `json:"package_name,omitempty"`
	RecentChangesHTML  *string `json:"recent_changes_html,omitempty"`
	InfoUpdatedOn      *string `json:"info_updated_on,omitempty"`
	AppType            *string `json:"app_type,omitempty"`
	TargetSdkVersion   *int32  `json:"target_sdk_version,omitempty"`
}

type Offer struct {
	Micros                 *int64   `json:"micros,omitempty"`
	CurrencyCode           *string  `json:"currency_code,omitempty"`
	FormattedAmount        *string  `json:"formatted_amount,omitempty"`
	ConvertedPrice         []Offer  `json:"converted_price,omitempty"`
	CheckoutFlowRequired   *bool    `json:"checkout_flow_required,omitempty"`
	FullPriceMicros        *int64   `json:"full_price_micros,omitempty"`
	FormattedFullAmount    *string  `json:"formatted_full_amount,omitempty"`
	OfferType              *int32   `json:"offer_type,omitempty"`
	OnSaleDate             *int64   `json:"on_sale_date,omitempty"`
	PromotionLabel         []string `json:"promotion_label,omitempty"`
	FormattedName          *string  `json:"formatted_name,omitempty"`
	FormattedDescription   *string  `json:"formatted_description,omitempty"`
	LicensedOfferType      *int32   `json:"licensed_offer_type,omitempty"`
	OfferID                *string  `json:"offer_id,omitempty"`
	Sale                   *bool    `json:"sale,omitempty"`
	InstantPurchaseEnabled *bool    `json:"instant_purchase_enabled,omitempty"`
	SaleMessage            *string  `json:"sale_message,omitempty"`
}

type DiscoveryBadge struct {
	Label                *string             `json:"label,omitempty"`
	Image                *Image              `json:"image,omitempty"`
	BackgroundColor      *int32              `json:"background_color,omitempty"`
	BadgeContainer1      *DiscoveryBadgeLink `json:"badge_container1,omitempty"`
	IsPlusOne            *bool               `json:"is_plus_one,omitempty"`
	AggregateRating      *float32            `json:"aggregate_rating,omitempty"`
	UserStarRating       *int32              `json:"user_star_rating,omitempty"`
	DownloadCount        *string             `json:"download_count,omitempty"`
	DownloadUnits        *string             `json:"download_units,omitempty"`
	ContentDescription   *string             `json:"content_description,omitempty"`
	PlayerBadge          *PlayerBadge        `json:"player_badge,omitempty"`
	FamilyAgeRangeBadge  *string             `json:"family_age_range_badge,omitempty"`
	FamilyCategoryBadge  *string             `json:"family_category_badge,omitempty"`
}

type DiscoveryBadgeLink struct {
	Link *Link `json:"link,omitempty"`
}

type PlayerBadge struct {
	OverlayIcon *Image `json:"overlay_icon,omitempty"`
}

type Image struct {
	ImageURL *string `json:"image_url,omitempty"`
}

type Link struct {
	URI *string `json:"uri,omitempty"`
}

type AppInfo struct {
	Title   *string          `json:"title,omitempty"`
	Section []AppInfoSection `json:"section,omitempty"`
}

type AppInfoSection struct {
	Label     *string           `json:"label,omitempty"`
	Container *AppInfoContainer `json:"container,omitempty"`
}

type AppInfoContainer struct {
	Image       *Image  `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Features struct {
	FeaturePresence []Feature `json:"feature_presence,omitempty"`
	FeatureRating   []Feature `json:"feature_rating,omitempty"`
}

type Feature struct {
	Label *string `json:"label,omitempty"`
	Value *string `json:"value,omitempty"`
}

// DownloadInfo is the download metadata for one app version, including any
// split APKs the delivery endpoint reports.
type DownloadInfo struct {
	PackageName  *string `json:"package_name,omitempty"`
	VersionCode  *int32  `json:"version_code,omitempty"`
	DownloadURL  *string `json:"download_url,omitempty"`
	DownloadSize *int64  `json:"download_size,omitempty"`
	Splits       []Split `json:"splits,omitempty"`
}

type Split struct {
	Name        *string `json:"name,omitempty"`
	DownloadURL *string `json:"download_url,omitempty"`
	Size        *int64  `json:"size,omitempty"`
}
