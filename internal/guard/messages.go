package guard

// LeaveSeatSelectionMessage warns that leaving the seat-selection surface
// forfeits the admission slot.
const LeaveSeatSelectionMessage = "좌석 선택 페이지를 벗어나면 대기열이 초기화되어 처음부터 다시 대기해야 할 수 있습니다. 이동하시겠습니까?"
