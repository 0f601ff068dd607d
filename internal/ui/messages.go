package ui

// SessionExpiredMessage is shown when the server reports an expired login.
const SessionExpiredMessage = "로그인이 만료되었습니다. 다시 로그인해 주세요."
