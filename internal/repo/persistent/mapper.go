package persistent

import (
	"stackvault/internal/entity"
	"stackvault/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		Photo:        m.Photo,
		Bio:          m.Bio,
		AuthProvider: m.AuthProvider,
		Role:         entity.Role(m.Role),
		Membership: entity.Membership{
			Status:        entity.MembershipStatus(m.Membership.Status),
			Type:          deref(m.Membership.Type),
			PurchasedAt:   m.Membership.PurchasedAt,
			TransactionID: deref(m.Membership.TransactionID),
			Amount:        m.Membership.Amount,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	status := string(e.Membership.Status)
	if status == "" {
		status = string(entity.MembershipNone)
	}
	role := string(e.Role)
	if role == "" {
		role = string(entity.RoleUser)
	}

	return &model.UserModel{
		ID:           e.ID,
		Email:        e.Email,
		Name:         e.Name,
		Photo:        e.Photo,
		Bio:          e.Bio,
		AuthProvider: e.AuthProvider,
		Role:         role,
		Membership: model.MembershipModel{
			Status:        status,
			Type:          ptr(e.Membership.Type),
			PurchasedAt:   e.Membership.PurchasedAt,
			TransactionID: ptr(e.Membership.TransactionID),
			Amount:        e.Membership.Amount,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToUserEntities(models []model.UserModel) []*entity.User {
	users := make([]*entity.User, len(models))
	for i := range models {
		users[i] = ToUserEntity(&models[i])
	}
	return users
}

func ToProductEntity(m *model.ProductModel) *entity.Product {
	if m == nil {
		return nil
	}

	tags := []string(m.Tags)
	if tags == nil {
		tags = []string{}
	}

	return &entity.Product{
		ID:           m.ID,
		Name:         m.Name,
		Image:        m.Image,
		Description:  m.Description,
		Tags:         tags,
		ExternalLink: m.ExternalLink,
		Owner: entity.Owner{
			Name:  m.Owner.Name,
			Email: m.Owner.Email,
			Photo: m.Owner.Photo,
		},
		Votes:         m.Votes,
		Status:        entity.ProductStatus(m.Status),
		Featured:      m.Featured,
		Reported:      m.Reported,
		ReportedBy:    deref(m.ReportedBy),
		ReporterName:  deref(m.ReporterName),
		ReporterImage: deref(m.ReporterImage),
		ReportReason:  deref(m.ReportReason),
		ReportedAt:    m.ReportedAt,
		ReviewedAt:    m.ReviewedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToProductModel(e *entity.Product) *model.ProductModel {
	if e == nil {
		return nil
	}

	status := string(e.Status)
	if status == "" {
		status = string(entity.ProductPending)
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	return &model.ProductModel{
		ID:           e.ID,
		Name:         e.Name,
		Image:        e.Image,
		Description:  e.Description,
		Tags:         tags,
		ExternalLink: e.ExternalLink,
		Owner: model.OwnerModel{
			Name:  e.Owner.Name,
			Email: e.Owner.Email,
			Photo: e.Owner.Photo,
		},
		Votes:         e.Votes,
		Status:        status,
		Featured:      e.Featured,
		Reported:      e.Reported,
		ReportedBy:    ptr(e.ReportedBy),
		ReporterName:  ptr(e.ReporterName),
		ReporterImage: ptr(e.ReporterImage),
		ReportReason:  ptr(e.ReportReason),
		ReportedAt:    e.ReportedAt,
		ReviewedAt:    e.ReviewedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToProductEntities(models []model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, len(models))
	for i := range models {
		products[i] = ToProductEntity(&models[i])
	}
	return products
}

func ToPaymentEntity(m *model.PaymentModel) *entity.Payment {
	if m == nil {
		return nil
	}

	return &entity.Payment{
		ID:             m.ID,
		Email:          m.Email,
		Amount:         m.Amount,
		TransactionID:  m.TransactionID,
		MembershipType: m.MembershipType,
		PaidAt:         m.PaidAt,
		Status:         m.Status,
		Service:        m.Service,
	}
}

func ToPaymentModel(e *entity.Payment) *model.PaymentModel {
	if e == nil {
		return nil
	}

	return &model.PaymentModel{
		ID:             e.ID,
		Email:          e.Email,
		Amount:         e.Amount,
		TransactionID:  e.TransactionID,
		MembershipType: e.MembershipType,
		PaidAt:         e.PaidAt,
		Status:         e.Status,
		Service:        e.Service,
	}
}

func ToReviewEntity(m *model.ReviewModel) *entity.Review {
	if m == nil {
		return nil
	}

	return &entity.Review{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ReviewerName:  m.ReviewerName,
		ReviewerImage: m.ReviewerImage,
		ReviewerEmail: m.ReviewerEmail,
		Description:   m.Description,
		Rating:        m.Rating,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToReviewModel(e *entity.Review) *model.ReviewModel {
	if e == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:            e.ID,
		ProductID:     e.ProductID,
		ReviewerName:  e.ReviewerName,
		ReviewerImage: e.ReviewerImage,
		ReviewerEmail: e.ReviewerEmail,
		Description:   e.Description,
		Rating:        e.Rating,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToCouponEntity(m *model.CouponModel) *entity.Coupon {
	if m == nil {
		return nil
	}

	return &entity.Coupon{
		ID:             m.ID,
		Code:           m.Code,
		Description:    m.Description,
		DiscountAmount: m.DiscountAmount,
		ExpiryDate:     m.ExpiryDate,
		MaxUses:        m.MaxUses,
		MinOrderAmount: m.MinOrderAmount,
		IsActive:       m.IsActive,
		UsedCount:      m.UsedCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToCouponModel(e *entity.Coupon) *model.CouponModel {
	if e == nil {
		return nil
	}

	return &model.CouponModel{
		ID:             e.ID,
		Code:           e.Code,
		Description:    e.Description,
		DiscountAmount: e.DiscountAmount,
		ExpiryDate:     e.ExpiryDate,
		MaxUses:        e.MaxUses,
		MinOrderAmount: e.MinOrderAmount,
		IsActive:       e.IsActive,
		UsedCount:      e.UsedCount,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
