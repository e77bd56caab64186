package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/findhope/findhope-api/config"
	"github.com/findhope/findhope-api/databases"
)

// Reward exported for testing purposes
type Reward struct {
	DB     databases.CaseDatabase
	Config config.Config
}

// CreateRewardCheckoutHandler opens a Stripe checkout session for a reward
// pledge on a case and returns the hosted payment URL
func (rw Reward) CreateRewardCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	body := struct {
		Amount int64 `json:"amount"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Amount <= 0 {
		config.ErrorStatus("amount must be positive", http.StatusBadRequest, w, fmt.Errorf("got: %v", body.Amount))
		return
	}

	caseItem, err := rw.DB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get case by ID", http.StatusNotFound, w, err)
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyINR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Reward pledge: " + caseItem.FullName),
					},
					UnitAmount: stripe.Int64(body.Amount * 100),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(rw.Config.BaseURL + "/api/v1/success"),
		CancelURL:  stripe.String(rw.Config.BaseURL + "/api/v1/cancel"),
	}
	params.AddMetadata("case_id", caseID)

	s, err := session.New(params)
	if err != nil {
		config.ErrorStatus("failed to create checkout session", http.StatusInternalServerError, w, err)
		return
	}

	// The pledged amount is recorded up front; payment confirmation would
	// arrive on a webhook in a later iteration.
	_, err = rw.DB.UpdateOne(r.Context(), bson.M{"_id": cID}, bson.M{"$inc": bson.M{"reward_amount": body.Amount}})
	if err != nil {
		zap.S().Errorw("failed to record reward pledge", "caseID", caseID, "error", err)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"url":       s.URL,
		"sessionId": s.ID,
	})
}

// HandleSuccessRedirect is the landing page after a completed checkout
func (rw Reward) HandleSuccessRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rw.Config.BaseURL+"?pledge=success", http.StatusSeeOther)
}

// HandleCancelRedirect is the landing page after an abandoned checkout
func (rw Reward) HandleCancelRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rw.Config.BaseURL+"?pledge=cancelled", http.StatusSeeOther)
}
