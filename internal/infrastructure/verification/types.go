package verification

// enquiryRequest is the wire request for a salary certificate enquiry
type enquiryRequest struct {
	NationalID  string `json:"nationalId"`
	DateOfBirth string `json:"dateOfBirth"`
}

// enquiryResponse is the wire response from the provider
type enquiryResponse struct {
	Message   string       `json:"message"`
	IsSuccess bool         `json:"isSuccess"`
	Data      enquiryData  `json:"data"`
}

type enquiryData struct {
	PrivateSector privateSector `json:"privateSector"`
}

type privateSector struct {
	EmploymentStatusInfo []employmentStatusInfo `json:"employmentStatusInfo"`
}

// employmentStatusInfo mirrors one employment record on the wire
type employmentStatusInfo struct {
	FullName                     string `json:"fullName"`
	BasicWage                    string `json:"basicWage"`
	HousingAllowance             string `json:"housingAllowance"`
	OtherAllowance               string `json:"otherAllowance"`
	FullWage                     string `json:"fullWage"`
	EmployerName                 string `json:"employerName"`
	DateOfJoining                string `json:"dateOfJoining"`
	WorkingMonths                string `json:"workingMonths"`
	EmploymentStatus             string `json:"employmentStatus"`
	SalaryStartingDate           string `json:"salaryStartingDate"`
	EstablishmentActivity        string `json:"establishmentActivity"`
	CommercialRegistrationNumber string `json:"commercialRegistrationNumber"`
	LegalEntity                  string `json:"legalEntity"`
	DateOfBirth                  string `json:"dateOfBirth"`
	Nationality                  string `json:"nationality"`
	GOSINumber                   string `json:"gosiNumber"`
}
