package converter

import (
	"clinic-booking-service/internal/delivery/dto"
	"clinic-booking-service/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID.Hex(),
		DoctorID:        appointment.DoctorID.Hex(),
		DoctorName:      appointment.DoctorName,
		DoctorEmail:     appointment.DoctorEmail,
		PatientName:     appointment.PatientName,
		PatientEmail:    appointment.PatientEmail,
		PatientPhone:    appointment.PatientPhone,
		AppointmentDate: appointment.AppointmentDate,
		AppointmentType: string(appointment.AppointmentType),
		Gender:          appointment.Gender,
		Notes:           appointment.Notes,
		UserID:          appointment.UserID,
		Status:          string(appointment.Status),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
