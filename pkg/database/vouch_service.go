package database

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
)

var (
	ErrInvalidVouch = errors.New("invalid vouch")
	ErrSelfVouch    = errors.New("no puedes darte vouch a ti mismo")
)

// VouchInput is what a buyer submits about a seller.
type VouchInput struct {
	VouchedByID string
	Product     string
	Value       float64
	Review      string
	Rating      int
}

func (in VouchInput) validate(sellerID string) error {
	if in.VouchedByID == sellerID {
		return ErrSelfVouch
	}
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating %d outside 1..5", ErrInvalidVouch, in.Rating)
	}
	if in.Value <= 0 || math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return fmt.Errorf("%w: value must be positive", ErrInvalidVouch)
	}
	if strings.TrimSpace(in.Product) == "" {
		return fmt.Errorf("%w: product is required", ErrInvalidVouch)
	}
	return nil
}

// RecordVouch appends a vouch for a seller. The number is assigned inside
// the collection transaction so numbering stays dense under concurrent calls.
func (m *Managers) RecordVouch(guildID, sellerID string, in VouchInput) (*models.Vouch, error) {
	if err := in.validate(sellerID); err != nil {
		return nil, err
	}

	var recorded models.Vouch
	err := m.Vouches.Update(guildID, func(p *models.VouchesPartition, _ bool) error {
		if *p == nil {
			*p = make(models.VouchesPartition)
		}
		seller := (*p)[sellerID]
		if seller == nil {
			seller = &models.SellerVouches{Vouches: []models.Vouch{}}
			(*p)[sellerID] = seller
		}

		recorded = models.Vouch{
			VouchNumber: len(seller.Vouches) + 1,
			VouchedByID: in.VouchedByID,
			Product:     strings.TrimSpace(in.Product),
			Value:       in.Value,
			Review:      strings.TrimSpace(in.Review),
			Rating:      in.Rating,
			Timestamp:   m.now().UTC(),
		}
		seller.Vouches = append(seller.Vouches, recorded)
		seller.Count = len(seller.Vouches)
		seller.SumRating += in.Rating
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.VouchesRecorded.Inc()
	logger.Info(fmt.Sprintf("Vouch #%d para %s en %s", recorded.VouchNumber, sellerID, guildID), "Vouches")
	recorded.SellerID = sellerID
	return &recorded, nil
}

// VouchCount returns how many vouches a seller has, which is also the
// highest vouch number.
func (m *Managers) VouchCount(guildID, sellerID string) (int, error) {
	list, err := m.SellerVouches(guildID, sellerID)
	return len(list), err
}

// SellerVouches returns a seller's vouches ordered by number.
func (m *Managers) SellerVouches(guildID, sellerID string) ([]models.Vouch, error) {
	p, err := m.Vouches.Get(guildID)
	if err != nil || p == nil {
		return []models.Vouch{}, err
	}
	seller := (*p)[sellerID]
	if seller == nil {
		return []models.Vouch{}, nil
	}
	out := make([]models.Vouch, len(seller.Vouches))
	for i, v := range seller.Vouches {
		v.SellerID = sellerID
		out[i] = v
	}
	return out, nil
}

// GuildVouches returns every vouch of a guild ordered by seller, then number.
func (m *Managers) GuildVouches(guildID string) ([]models.Vouch, error) {
	p, err := m.Vouches.Get(guildID)
	if err != nil || p == nil {
		return []models.Vouch{}, err
	}
	sellers := make([]string, 0, len(*p))
	for id := range *p {
		sellers = append(sellers, id)
	}
	sort.Strings(sellers)

	out := []models.Vouch{}
	for _, id := range sellers {
		seller := (*p)[id]
		if seller == nil {
			continue
		}
		for _, v := range seller.Vouches {
			v.SellerID = id
			out = append(out, v)
		}
	}
	return out, nil
}

// VouchStats returns the vouch count and average rating rounded to two decimals.
func (m *Managers) VouchStats(guildID, sellerID string) (int, float64, error) {
	p, err := m.Vouches.Get(guildID)
	if err != nil || p == nil {
		return 0, 0, err
	}
	seller := (*p)[sellerID]
	if seller == nil || seller.Count == 0 {
		return 0, 0, nil
	}
	avg := math.Round(float64(seller.SumRating)/float64(seller.Count)*100) / 100
	return seller.Count, avg, nil
}
