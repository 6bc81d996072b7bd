package tenant

type TenantResponse struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	AdminEmail  string `json:"admin_email"`
	AdminName   string `json:"admin_name"`
	Department  string `json:"department,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Status      string `json:"status"`
}

type UpdateTenantStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
