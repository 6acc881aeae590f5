package handler

import "donor-finder/internal/service"

type Handlers struct {
	Donor  *DonorHandler
	Notify *NotifyHandler
	Page   *PageHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Donor:  NewDonorHandler(services.Donor),
		Notify: NewNotifyHandler(services.Notify),
		Page:   NewPageHandler(services.Donor),
	}
}
