package consts

const (
	BrandOverviewKey = "brand:overview:"
	BrandListKey     = "brand:list"
)

const (
	DailySweepLock = "sweep:daily:lock"
)
