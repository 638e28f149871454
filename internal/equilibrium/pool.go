// =============================
// File: internal/equilibrium/pool.go
// =============================
package equilibrium

// reserveFloor не даёт USD-резерву стать нулевым или отрицательным.
const reserveFloor = 1e-9

// Pool is the simulated constant-product pool together with the token
// supply it trades against. Swaps keep TokenReserve*USDReserve constant;
// mint and burn change TokenReserve and Supply outside of a swap.
type Pool struct {
	TokenReserve float64
	USDReserve   float64
	Supply       float64
}

// NewPool seeds the pool with liquidity tokens valued at price.
func NewPool(liquidity, price, supply float64) *Pool {
	return &Pool{
		TokenReserve: liquidity,
		USDReserve:   liquidity * price,
		Supply:       supply,
	}
}

// Price возвращает цену токена, заложенную в резервах пула.
func (p *Pool) Price() float64 {
	if p.TokenReserve <= 0 {
		return 0
	}
	return p.USDReserve / p.TokenReserve
}

// Product returns the constant-product invariant k = x*y.
func (p *Pool) Product() float64 {
	return p.TokenReserve * p.USDReserve
}

// BuyAndBurn spends fee USD on tokens from the pool and burns them.
//
// Количество токенов считается по формуле Constant Product AMM:
// tokensOut = x − k/(y + fee), затем ограничивается [0, supply−1], чтобы
// эмиссия не стала неположительной. USD, фактически уплаченные за эти
// токены, пересчитываются из инварианта: usdIn = k/(x − tokensOut) − y.
func (p *Pool) BuyAndBurn(fee float64) (burned, usdIn float64) {
	k := p.Product()
	tokensOut := p.TokenReserve - k/(p.USDReserve+fee)
	if limit := p.Supply - 1; tokensOut > limit {
		tokensOut = limit
	}
	if tokensOut <= 0 {
		return 0, 0
	}

	usdIn = k/(p.TokenReserve-tokensOut) - p.USDReserve

	p.TokenReserve -= tokensOut
	p.USDReserve += usdIn
	p.Supply -= tokensOut
	return tokensOut, usdIn
}

// MintAndSwap mints reward tokens and sells all of them into the pool.
// It returns the USD taken out of the pool.
//
// Formula: usdOut = y * minted / (x + minted)
func (p *Pool) MintAndSwap(minted float64) (usdOut float64) {
	if minted <= 0 {
		return 0
	}

	p.Supply += minted
	usdOut = p.USDReserve * minted / (p.TokenReserve + minted)
	p.TokenReserve += minted

	before := p.USDReserve
	p.USDReserve -= usdOut
	if p.USDReserve < reserveFloor {
		p.USDReserve = reserveFloor
	}
	return before - p.USDReserve
}
