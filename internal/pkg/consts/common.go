package consts

// 支持的平台标识，与 brand_channels.platform 及复合键后缀一致
const (
	PlatformYoutube   = "youtube"
	PlatformTiktok    = "tiktok"
	PlatformInstagram = "instagram"
)

// IsValidPlatform 校验平台标识
func IsValidPlatform(p string) bool {
	switch p {
	case PlatformYoutube, PlatformTiktok, PlatformInstagram:
		return true
	}
	return false
}

const (
	DefaultBrandColor = "#d63031"
)
