package adminapi

import "github.com/otjiningirua/owfarm/internal/webserver"

// Init registers every public and admin route on the server
func Init(s *webserver.AdminServer) {
	registerAuthRoutes(s)
	registerProductRoutes(s)
	registerUserRoutes(s)
	registerOrderRoutes(s)
	registerStockRoutes(s)
	registerSettingsRoutes(s)
	registerLogRoutes(s)
	registerReportRoutes(s)
	registerUploadRoutes(s)
	registerInquiryRoutes(s)
	registerAnalyticsRoutes(s)
}
