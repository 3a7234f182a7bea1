package converter

import (
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO. The password never leaves the entity.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                 doctor.ID.Hex(),
		Name:               doctor.Name,
		Email:              doctor.Email,
		Phone:              doctor.Phone,
		Address:            doctor.Address,
		Experience:         doctor.Experience,
		Category:           doctor.Category,
		Specialization:     doctor.Specialization,
		Price:              doctor.Price,
		ConsultationFee:    doctor.ConsultationFee,
		Image:              doctor.Image,
		ClinicName:         doctor.ClinicName,
		Degree:             doctor.Degree,
		RegistrationAgency: doctor.RegistrationAgency,
		RegistrationNumber: doctor.RegistrationNumber,
		IsVerified:         doctor.IsVerified,
		IsActive:           doctor.IsActive,
		AvailableDates:     AvailabilityToResponse(doctor.AvailableDates),
		CreatedAt:          doctor.CreatedAt,
		UpdatedAt:          doctor.UpdatedAt,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func AvailabilityToResponse(availability entity.Availability) []dto.AvailableDateResponse {
	responses := make([]dto.AvailableDateResponse, len(availability))
	for i, d := range availability {
		slots := d.TimeSlots
		if slots == nil {
			slots = []string{}
		}
		responses[i] = dto.AvailableDateResponse{Date: d.Date, TimeSlots: slots}
	}
	return responses
}

// AvailabilityFromRequest merges duplicate dates and slots of a submitted array.
func AvailabilityFromRequest(dates []dto.AvailableDateRequest) entity.Availability {
	availability := make(entity.Availability, 0, len(dates))
	for _, d := range dates {
		availability = append(availability, entity.AvailableDate{Date: d.Date, TimeSlots: d.TimeSlots})
	}
	return availability.Normalize()
}

// DoctorRequestToEntity maps the editable fields of req. Flags left out of the body keep the values already on doctor.
func DoctorRequestToEntity(req *dto.DoctorRequest, doctor *entity.Doctor) {
	doctor.Name = req.Name
	doctor.Email = req.Email
	doctor.Phone = req.Phone
	doctor.Address = req.Address
	doctor.Experience = req.Experience
	doctor.Category = req.Category
	doctor.Specialization = req.Specialization
	doctor.Price = req.Price
	doctor.ConsultationFee = req.ConsultationFee
	doctor.Image = req.Image
	doctor.ClinicName = req.ClinicName
	doctor.Degree = req.Degree
	doctor.RegistrationAgency = req.RegistrationAgency
	doctor.RegistrationNumber = req.RegistrationNumber
	if req.IsVerified != nil {
		doctor.IsVerified = *req.IsVerified
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}
	doctor.AvailableDates = AvailabilityFromRequest(req.AvailableDates)
}
