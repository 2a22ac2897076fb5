package handlers

import (
	"nftmarket/internal/money"
	"nftmarket/internal/store"
)

func userJSON(u store.User) map[string]any {
	return map[string]any{
		"id":            u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"role":          u.Role,
		"emailVerified": u.EmailVerified,
		"newsletter":    u.Newsletter,
		"createdAt":     u.CreatedAt,
	}
}

func depositJSON(d store.Deposit) map[string]any {
	return map[string]any{
		"id":          d.ID,
		"userId":      d.UserID,
		"username":    strOrEmpty(d.Username),
		"email":       strOrEmpty(d.Email),
		"amount":      money.FormatMinor(d.Amount),
		"network":     d.Network,
		"proofFiles":  d.ProofFiles,
		"note":        d.Note,
		"status":      d.Status,
		"adminNote":   d.AdminNote,
		"processedBy": strOrEmpty(d.ProcessedBy),
		"processedAt": d.ProcessedAt,
		"createdAt":   d.CreatedAt,
	}
}

func withdrawalJSON(w store.Withdrawal) map[string]any {
	return map[string]any{
		"id":              w.ID,
		"userId":          w.UserID,
		"username":        strOrEmpty(w.Username),
		"email":           strOrEmpty(w.Email),
		"amount":          money.FormatMinor(w.Amount),
		"network":         w.Network,
		"type":            w.Type,
		"destination":     w.Destination,
		"destinationType": w.DestinationType,
		"note":            w.Note,
		"status":          w.Status,
		"adminNote":       w.AdminNote,
		"processedBy":     strOrEmpty(w.ProcessedBy),
		"processedAt":     w.ProcessedAt,
		"createdAt":       w.CreatedAt,
	}
}

func nftJSON(n store.NFT) map[string]any {
	return map[string]any{
		"id":           n.ID,
		"ownerId":      n.OwnerID,
		"ownerName":    strOrEmpty(n.OwnerName),
		"name":         n.Name,
		"description":  n.Description,
		"categoryId":   n.CategoryID,
		"categoryName": strOrEmpty(n.CategoryName),
		"floorPrice":   money.FormatMinor(n.FloorPrice),
		"artworkUrl":   n.ArtworkURL,
		"mintFee":      money.FormatMinor(n.MintFee),
		"status":       n.Status,
		"isActive":     n.IsActive,
		"adminNote":    n.AdminNote,
		"processedAt":  n.ProcessedAt,
		"createdAt":    n.CreatedAt,
	}
}

func transactionJSON(t store.Transaction) map[string]any {
	return map[string]any{
		"id":             t.ID,
		"userId":         t.UserID,
		"type":           t.Type,
		"amount":         money.FormatMinor(t.Amount),
		"network":        t.Network,
		"status":         t.Status,
		"referenceId":    t.ReferenceID,
		"referenceModel": t.ReferenceModel,
		"description":    t.Description,
		"createdAt":      t.CreatedAt,
	}
}

func categoryJSON(c store.Category) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"name":          c.Name,
		"description":   c.Description,
		"coverImage":    c.CoverImage,
		"minFloorPrice": money.FormatMinor(c.MinFloorPrice),
		"mintFee":       money.FormatMinor(c.MintFee),
		"isActive":      c.IsActive,
		"createdAt":     c.CreatedAt,
	}
}

func newsletterJSON(n store.NewsletterSubscription) map[string]any {
	return map[string]any{
		"id":             n.ID,
		"email":          n.Email,
		"name":           n.Name,
		"status":         n.Status,
		"subscribedAt":   n.SubscribedAt,
		"unsubscribedAt": n.UnsubscribedAt,
	}
}
